package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadServerConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Server.Address)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 750, config.Server.BotPaceMs)
	require.Len(t, config.Games, 1)
	assert.Equal(t, "main", config.Games[0].Name)
	require.NoError(t, config.Validate())
}

func TestLoadServerConfigParsesHCL(t *testing.T) {
	content := `
server {
  address     = "0.0.0.0"
  port        = 9090
  log_level   = "debug"
  database    = "farkle.db"
  bot_pace_ms = 100
}

bot "rocky" {
  difficulty = "hard"
}

bot "apollo" {
  risk_tolerance = 3
  trash_talk     = 8
}

game "casual" {
  mode         = "target"
  target_score = 5000
  bots         = ["rocky", "apollo"]
}

game "league" {
  mode            = "fixed_rounds"
  rounds          = 10
  overtime_rounds = 3
  bots            = ["rocky"]
}
`
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadServerConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "0.0.0.0:9090", config.GetServerAddress())
	assert.Equal(t, 100, config.Server.BotPaceMs)

	require.Len(t, config.Games, 2)
	assert.Equal(t, 5000, config.Games[0].TargetScore)
	assert.Equal(t, "fixed_rounds", config.Games[1].Mode)
	assert.Equal(t, 3, config.Games[1].OvertimeRounds)

	rocky := config.GetBotByName("rocky")
	require.NotNil(t, rocky)
	assert.Equal(t, "hard", rocky.Difficulty)

	apollo := config.GetBotByName("apollo")
	require.NotNil(t, apollo)
	assert.Equal(t, 3, apollo.RiskTolerance)

	assert.Nil(t, config.GetBotByName("clubber"))
}

func TestLoadServerConfigAppliesDefaults(t *testing.T) {
	content := `
server {
}

game "main" {
}
`
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadServerConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Server.Address)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "target", config.Games[0].Mode)
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "bad port",
			mutate:  func(c *ServerConfig) { c.Server.Port = 0 },
			wantErr: "invalid port",
		},
		{
			name:    "bad mode",
			mutate:  func(c *ServerConfig) { c.Games[0].Mode = "marathon" },
			wantErr: "invalid mode",
		},
		{
			name: "overtime outside fixed rounds",
			mutate: func(c *ServerConfig) {
				c.Games[0].OvertimeRounds = 3
			},
			wantErr: "overtime_rounds",
		},
		{
			name: "duplicate bot",
			mutate: func(c *ServerConfig) {
				c.Bots = append(c.Bots, BotConfig{Name: "rocky"})
			},
			wantErr: "duplicate name",
		},
		{
			name: "bad difficulty",
			mutate: func(c *ServerConfig) {
				c.Bots[0].Difficulty = "nightmare"
			},
			wantErr: "invalid difficulty",
		},
		{
			name: "risk tolerance out of range",
			mutate: func(c *ServerConfig) {
				c.Bots[0].RiskTolerance = 11
			},
			wantErr: "risk_tolerance",
		},
		{
			name: "game references unknown bot",
			mutate: func(c *ServerConfig) {
				c.Games[0].Bots = []string{"ghost"}
			},
			wantErr: "unknown bot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultServerConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
