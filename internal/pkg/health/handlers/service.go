package handlers

import (
	"github.com/dotball/dotball/internal/scoring/service"
)

var scoringService *service.Service

// SetScoringService injects the scoring service the handlers delegate to.
func SetScoringService(svc *service.Service) {
	scoringService = svc
}
