// This file contains shared test utilities for job context mocking.

package testutil

import (
	"database/sql"

	"github.com/Staninbui/wood/internal/artifact"
	"github.com/Staninbui/wood/internal/config"
	"github.com/Staninbui/wood/internal/core"
	"github.com/Staninbui/wood/internal/jobs"
	"github.com/Staninbui/wood/internal/progress"
	"github.com/Staninbui/wood/internal/store"
	"github.com/Staninbui/wood/internal/websocket"
)

// MockJobContext implements jobs.JobContext for testing
type MockJobContext struct {
	App *core.App
}

func (m *MockJobContext) DB() *sql.DB                  { return m.App.DB() }
func (m *MockJobContext) Config() *config.Config       { return m.App.Config() }
func (m *MockJobContext) Store() *store.Store          { return m.App.Store() }
func (m *MockJobContext) Tracker() *progress.Tracker   { return m.App.Tracker() }
func (m *MockJobContext) Artifacts() *artifact.Store   { return m.App.Artifacts() }
func (m *MockJobContext) WsHub() *websocket.Hub        { return m.App.WsHub() }
func (m *MockJobContext) JobManager() *jobs.JobManager { return m.App.JobManager() }
