// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing.
//
// Command: config <get|set|list|path>
//
// Examples:
//
//	garagehub config list
//	garagehub config get api.base_url
//	garagehub config set api.base_url http://10.0.0.5:8000
//	garagehub config set ui.theme light
//	garagehub config path
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/garagehub-tui/internal/config"
)

// HandleConfigCommand dispatches the config subcommands.
func HandleConfigCommand(args *Args) error {
	switch args.Subcommand {
	case "", "list":
		return configList(args)
	case "get":
		return configGet(args)
	case "set":
		return configSet(args)
	case "path":
		return configPath(args)
	default:
		return NewUsageError("unknown config action %q (get|set|list|path)", args.Subcommand)
	}
}

func configList(args *Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	return OutputJSON(args.JSON, "config list", func() (interface{}, error) {
		values := make(map[string]interface{})
		for _, key := range config.GetAllKeys() {
			if v, err := cfg.Get(key); err == nil {
				values[key] = v
			}
		}

		if !args.JSON {
			fmt.Println()
			fmt.Println(TitleStyle.Render("Configuration"))
			for _, key := range config.GetAllKeys() {
				v, err := cfg.Get(key)
				if err != nil {
					continue
				}
				fmt.Printf("  %-28s %v\n", DimStyle.Render(key), v)
			}
			fmt.Println()
		}
		return values, nil
	})
}

func configGet(args *Args) error {
	key := strings.Join(args.Rest, "")
	if key == "" {
		return NewUsageError("config get requires a key (see config list)")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	return OutputJSON(args.JSON, "config get", func() (interface{}, error) {
		value, err := cfg.Get(key)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Printf("%v\n", value)
		}
		return map[string]interface{}{key: value}, nil
	})
}

func configSet(args *Args) error {
	if len(args.Rest) < 2 {
		return NewUsageError("config set requires a key and a value")
	}
	key := args.Rest[0]
	value := strings.Join(args.Rest[1:], " ")

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	return OutputJSON(args.JSON, "config set", func() (interface{}, error) {
		if err := cfg.Set(key, value); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if err := config.Save(cfg); err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Printf("%s = %s\n", key, value)
		}
		return map[string]string{key: value}, nil
	})
}

func configPath(args *Args) error {
	return OutputJSON(args.JSON, "config path", func() (interface{}, error) {
		path, err := config.ConfigPathTOML()
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Println(path)
		}
		return map[string]string{"path": path}, nil
	})
}
