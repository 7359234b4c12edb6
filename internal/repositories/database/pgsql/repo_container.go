package pgsql

import (
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	workspaceRepo := newPgxWorkspaceRepository(dbPool)
	projectRepo := newPgxProjectRepository(dbPool)
	boardRepo := newPgxBoardRepository(dbPool)

	return portsrepo.RepositoryProvider{
		WorkspaceRepo: workspaceRepo,
		ProjectRepo:   projectRepo,
		BoardRepo:     boardRepo,
	}
}
