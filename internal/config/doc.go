// Package config loads runtime settings for elmterm programs.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← ELMTERM_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← TOML or YAML
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load("~/.config/elmterm/config.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.Options()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := app.New(model, opts...)
//
// # File Format
//
// The format is chosen by extension: .toml, or .yaml/.yml.
//
//	alt_screen = true
//	mouse_mode = "cell"
//	fps = 60
//	poll_interval = "100ms"
//
// Unknown keys are rejected so typos surface as errors.
//
// # Live Reload
//
// Watch reloads the file whenever it changes on disk:
//
//	go config.Watch(ctx, path, func(cfg *config.File, err error) {
//	    ...
//	})
package config
