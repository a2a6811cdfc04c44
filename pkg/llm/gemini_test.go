package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/require"
)

func TestContentText_JoinsAllParts(t *testing.T) {
	content := &genai.Content{Parts: []genai.Part{
		genai.Text(`{"day":1,`),
		genai.Text(`"date":"2024-01-01"}`),
	}}
	require.Equal(t, `{"day":1,"date":"2024-01-01"}`, contentText(content))
}

func TestContentText_SkipsNonTextParts(t *testing.T) {
	content := &genai.Content{Parts: []genai.Part{
		genai.Text("前半"),
		genai.Blob{MIMEType: "image/png", Data: []byte{0x89}},
		genai.Text("后半"),
	}}
	require.Equal(t, "前半后半", contentText(content))
}
