package audit

import (
	"encoding/json"
	"fmt"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
)

type LogOptions struct {
	EmployeeID   uint
	EmployeeName string
	EntityType   string
	EntityID     uint
	Action       models.AuditAction
	Description  string
	Before       any
	After        any
}

func WriteLog(opts LogOptions) error {
	// jsonb kolonu için boş string yerine "null" yazılmalı
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		EmployeeID:   opts.EmployeeID,
		EmployeeName: opts.EmployeeName,
		EntityType:   opts.EntityType,
		EntityID:     opts.EntityID,
		Action:       opts.Action,
		Description:  opts.Description,
		BeforeData:   beforeStr,
		AfterData:    afterStr,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}
