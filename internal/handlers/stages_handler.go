package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// AnalysisStages is the progress descriptor the frontend renders while POST /analyze runs.
func AnalysisStages() []models.Stage {
	return []models.Stage{
		{Stage: 1, Name: "Uploading Resume", Status: models.StageCompleted},
		{Stage: 2, Name: "Extracting Text", Status: models.StageInProgress},
		{Stage: 3, Name: "Analyzing Content", Status: models.StagePending},
		{Stage: 4, Name: "Generating Insights", Status: models.StagePending},
		{Stage: 5, Name: "Calculating Selection Chances", Status: models.StagePending},
	}
}

// HandleAnalyzeStages handles POST /analyze-stages
func HandleAnalyzeStages(c *fiber.Ctx) error {
	return c.JSON(models.StagesResponse{Stages: AnalysisStages()})
}
