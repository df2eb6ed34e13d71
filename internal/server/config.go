package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/mkrall/pokerroom/internal/game"
)

// Config represents the complete server configuration
type Config struct {
	Server       ServerSettings `hcl:"server,block"`
	RoomDefaults *RoomDefaults  `hcl:"room_defaults,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address            string `hcl:"address,optional"`
	Port               int    `hcl:"port,optional"`
	LogLevel           string `hcl:"log_level,optional"`
	TurnTimeoutSeconds int    `hcl:"turn_timeout_seconds,optional"`
	BotThinkMs         int    `hcl:"bot_think_ms,optional"`
}

// RoomDefaults are the settings applied when create_room omits fields
type RoomDefaults struct {
	BuyIn      int    `hcl:"buy_in,optional"`
	SmallBlind int    `hcl:"small_blind,optional"`
	BigBlind   int    `hcl:"big_blind,optional"`
	MaxPlayers int    `hcl:"max_players,optional"`
	Variant    string `hcl:"game_type,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:            "localhost",
			Port:               8080,
			LogLevel:           "info",
			TurnTimeoutSeconds: 30,
			BotThinkMs:         1500,
		},
		RoomDefaults: &RoomDefaults{
			BuyIn:      1000,
			SmallBlind: 5,
			BigBlind:   10,
			MaxPlayers: 6,
			Variant:    string(game.DefaultVariant),
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Server.TurnTimeoutSeconds == 0 {
		config.Server.TurnTimeoutSeconds = defaults.Server.TurnTimeoutSeconds
	}
	if config.Server.BotThinkMs == 0 {
		config.Server.BotThinkMs = defaults.Server.BotThinkMs
	}

	if config.RoomDefaults == nil {
		config.RoomDefaults = defaults.RoomDefaults
	} else {
		if config.RoomDefaults.BuyIn == 0 {
			config.RoomDefaults.BuyIn = defaults.RoomDefaults.BuyIn
		}
		if config.RoomDefaults.SmallBlind == 0 {
			config.RoomDefaults.SmallBlind = defaults.RoomDefaults.SmallBlind
		}
		if config.RoomDefaults.BigBlind == 0 {
			config.RoomDefaults.BigBlind = defaults.RoomDefaults.BigBlind
		}
		if config.RoomDefaults.MaxPlayers == 0 {
			config.RoomDefaults.MaxPlayers = defaults.RoomDefaults.MaxPlayers
		}
		if config.RoomDefaults.Variant == "" {
			config.RoomDefaults.Variant = defaults.RoomDefaults.Variant
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.TurnTimeoutSeconds < 1 {
		return fmt.Errorf("turn timeout must be at least 1 second, got %d", c.Server.TurnTimeoutSeconds)
	}
	if c.Server.BotThinkMs < 0 {
		return fmt.Errorf("bot think delay cannot be negative, got %d", c.Server.BotThinkMs)
	}

	if !game.Variant(c.RoomDefaults.Variant).Valid() {
		return fmt.Errorf("unknown game type %q", c.RoomDefaults.Variant)
	}
	settings := c.DefaultSettings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("room defaults: %w", err)
	}
	return nil
}

// DefaultSettings converts the room defaults into engine settings
func (c *Config) DefaultSettings() game.Settings {
	return game.Settings{
		BuyIn:      c.RoomDefaults.BuyIn,
		SmallBlind: c.RoomDefaults.SmallBlind,
		BigBlind:   c.RoomDefaults.BigBlind,
		MaxPlayers: c.RoomDefaults.MaxPlayers,
		Variant:    game.Variant(c.RoomDefaults.Variant),
	}
}

// ListenAddress returns the full listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
