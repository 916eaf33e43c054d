package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Games  []GameConfig   `hcl:"game,block"`
	Bots   []BotConfig    `hcl:"bot,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address   string `hcl:"address,optional"`
	Port      int    `hcl:"port,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFile   string `hcl:"log_file,optional"`
	Database  string `hcl:"database,optional"`
	BotPaceMs int    `hcl:"bot_pace_ms,optional"`
}

// GameConfig defines a pre-provisioned game lobby
type GameConfig struct {
	Name           string   `hcl:"name,label"`
	Mode           string   `hcl:"mode,optional"`
	TargetScore    int      `hcl:"target_score,optional"`
	Rounds         int      `hcl:"rounds,optional"`
	OvertimeRounds int      `hcl:"overtime_rounds,optional"`
	BreakIn        int      `hcl:"break_in,optional"`
	Bots           []string `hcl:"bots,optional"`
}

// BotConfig defines a reusable bot personality
type BotConfig struct {
	Name          string `hcl:"name,label"`
	Difficulty    string `hcl:"difficulty,optional"`
	RiskTolerance int    `hcl:"risk_tolerance,optional"`
	TrashTalk     int    `hcl:"trash_talk,optional"`
	EnrichURL     string `hcl:"enrich_url,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:   "localhost",
			Port:      8080,
			LogLevel:  "info",
			BotPaceMs: 750,
		},
		Games: []GameConfig{
			{
				Name: "main",
				Mode: "target",
				Bots: []string{"rocky"},
			},
		},
		Bots: []BotConfig{
			{
				Name:       "rocky",
				Difficulty: "medium",
			},
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.BotPaceMs == 0 {
		config.Server.BotPaceMs = 750
	}

	for i := range config.Games {
		if config.Games[i].Mode == "" {
			config.Games[i].Mode = "target"
		}
	}

	for i := range config.Bots {
		if config.Bots[i].Difficulty == "" && config.Bots[i].RiskTolerance == 0 {
			config.Bots[i].Difficulty = "medium"
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	validModes := map[string]bool{"target": true, "fixed_rounds": true}
	for _, g := range c.Games {
		if !validModes[g.Mode] {
			return fmt.Errorf("game %s: invalid mode %s", g.Name, g.Mode)
		}
		if g.OvertimeRounds != 0 && g.Mode != "fixed_rounds" {
			return fmt.Errorf("game %s: overtime_rounds only applies to fixed_rounds mode", g.Name)
		}
	}

	byName := make(map[string]bool, len(c.Bots))
	validDifficulties := map[string]bool{"": true, "easy": true, "medium": true, "hard": true}
	for _, b := range c.Bots {
		if byName[b.Name] {
			return fmt.Errorf("bot %s: duplicate name", b.Name)
		}
		byName[b.Name] = true
		if !validDifficulties[b.Difficulty] {
			return fmt.Errorf("bot %s: invalid difficulty %s", b.Name, b.Difficulty)
		}
		if b.RiskTolerance < 0 || b.RiskTolerance > 10 {
			return fmt.Errorf("bot %s: risk_tolerance must be 1-10", b.Name)
		}
		if b.TrashTalk < 0 || b.TrashTalk > 10 {
			return fmt.Errorf("bot %s: trash_talk must be 1-10", b.Name)
		}
	}

	for _, g := range c.Games {
		for _, botName := range g.Bots {
			if !byName[botName] {
				return fmt.Errorf("game %s: unknown bot %s", g.Name, botName)
			}
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetBotByName returns a bot configuration by name
func (c *ServerConfig) GetBotByName(name string) *BotConfig {
	for i := range c.Bots {
		if c.Bots[i].Name == name {
			return &c.Bots[i]
		}
	}
	return nil
}
