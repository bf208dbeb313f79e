package repository

import (
	"context"

	"github.com/costbook/backend/internal/model"
)

// ProjectRepository はプロジェクト参照のインターフェース
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// ListActiveIDs は status='active' のプロジェクト ID を返す
	ListActiveIDs(ctx context.Context) ([]string, error)
}
