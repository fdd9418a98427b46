// Package config loads and merges spotreview configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (SPOTREVIEW_GRADLE_TASK, SPOTREVIEW_FAIL_ON, etc.)
//  3. Project file (.spotreview.yaml in the working directory)
//  4. User file ($XDG_CONFIG_HOME/spotreview/config.yaml, or config.json)
//  5. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the user file and
// [SetField] to update a single key.
package config
