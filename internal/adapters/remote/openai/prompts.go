package openai

import (
	"fmt"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
)

const systemPrompt = "You are an AI expert in designing and optimizing data pipelines."

func optimizePrompt(req dto.OptimizeRequest) string {
	return fmt.Sprintf(`Analyze the pipeline configuration below and suggest optimizations for the stated goals.

Pipeline Configuration:
%s

Optimization Goals: %s

Give clear, actionable suggestions tailored to this pipeline, considering performance, cost and efficiency. Look for bottlenecks, redundant steps, better component arrangements, parameter adjustments and more efficient algorithms.

Reply with a JSON object with two string fields:
- "suggestions": the suggestions as a numbered list
- "rationale": why each suggestion helps`, req.PipelineConfiguration, req.OptimizationGoals)
}

func planPrompt(pipeline string) string {
	return fmt.Sprintf(`Based on the pipeline structure below (nodes and connections), write a logical, step-by-step execution plan.

Source nodes start the pipeline and connections define how data flows between components.

Answer with a markdown numbered list. For each step name the component and describe what it does based on its configuration.

Pipeline:
`+"```json\n%s\n```", pipeline)
}
