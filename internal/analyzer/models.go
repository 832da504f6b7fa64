package analyzer

import (
	"strings"

	"github.com/sashabaranov/go-openai"
)

// modelParams описывает различия в форме запроса между моделями провайдера:
// имя параметра лимита токенов и поддержку temperature.
type modelParams struct {
	useMaxCompletionTokens bool
	supportsTemperature    bool
}

var modelTable = map[string]modelParams{
	"gpt-4o":       {useMaxCompletionTokens: false, supportsTemperature: true},
	"gpt-4o-mini":  {useMaxCompletionTokens: false, supportsTemperature: true},
	"gpt-4-turbo":  {useMaxCompletionTokens: false, supportsTemperature: true},
	"gpt-4.1":      {useMaxCompletionTokens: true, supportsTemperature: true},
	"gpt-4.1-mini": {useMaxCompletionTokens: true, supportsTemperature: true},
	"o1":           {useMaxCompletionTokens: true, supportsTemperature: false},
	"o1-mini":      {useMaxCompletionTokens: true, supportsTemperature: false},
	"o3-mini":      {useMaxCompletionTokens: true, supportsTemperature: false},
}

// paramsFor возвращает параметры модели: точное совпадение, затем по префиксу.
// Для неизвестной модели — самый безопасный набор: новый параметр лимита
// токенов и без temperature.
func paramsFor(model string) modelParams {
	if p, ok := modelTable[model]; ok {
		return p
	}
	for prefix, p := range modelTable {
		if strings.HasPrefix(model, prefix+"-") {
			return p
		}
	}
	return modelParams{useMaxCompletionTokens: true, supportsTemperature: false}
}

// shapeRequest собирает запрос с учетом особенностей конкретной модели.
func shapeRequest(model string, maxTokens int, temperature float32, systemMsg, prompt string) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	p := paramsFor(model)
	if p.useMaxCompletionTokens {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
	if p.supportsTemperature {
		req.Temperature = temperature
	}

	return req
}
