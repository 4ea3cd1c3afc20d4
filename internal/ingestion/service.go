package ingestion

import (
	"github.com/gin-gonic/gin"
)

type Service struct {
	recorder         *Recorder
	maxBodySizeBytes int
}

func NewService(recorder *Recorder, maxBodySizeMB int) *Service {
	if recorder == nil {
		panic("ingestion: recorder must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		recorder:         recorder,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the order intake route.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/tenants/:tenant_id/orders", s.RecordOrderHandler)
}
