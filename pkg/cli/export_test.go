package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
	"github.com/secmon-lab/memoryjar/pkg/usecase"
)

var RunWithWriter = run

func NewOpenModelForTest(ctx context.Context, uc *usecase.UseCases, status model.DailyStatus) tea.Model {
	return newOpenModel(ctx, uc, status)
}
