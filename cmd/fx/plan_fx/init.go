package plan_fx

import (
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripweaver/internal/api/controllers"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
	"tripweaver/pkg/llm"
	mem "tripweaver/pkg/memcache"
)

var Module = fx.Provide(
	providePlanCache, providePlanRepo, providePlanService, providePlanController)

func providePlanCache() *mem.PlanCache {
	return mem.NewPlanCache(time.Hour)
}

func providePlanRepo(db *gorm.DB) repositories.PlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(chatClient llm.ChatClient, cache *mem.PlanCache) services.PlanServiceInterface {
	return services.NewPlanService(chatClient, cache)
}

func providePlanController(planService services.PlanServiceInterface, planRepo repositories.PlanRepository) *controllers.PlanController {
	return controllers.NewPlanController(planService, planRepo)
}
