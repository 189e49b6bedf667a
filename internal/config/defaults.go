package config

// Check names used as keys of the exclusions map.
const (
	CheckBuild      = "build"
	CheckVersion    = "version"
	CheckConfig     = "config"
	CheckChannel    = "channel"
	CheckComponents = "components"
	CheckPaths      = "paths"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"examples_root": "examples",
		"manifest_file": "Cargo.toml",
		"curated_dirs": []string{
			"general",
			"supplementary",
			"restriction",
			"experimental",
			"testing",
		},
		"skip_dirs":           []string{"target", ".git"},
		"build_config_file":   ".cargo/config.toml",
		"target_dir_key":      "build.target-dir",
		"toolchain_file":      "rust-toolchain",
		"forbidden_component": "rust-src",
		"expected_version":    "",
		"forbidden_files_general": []string{
			".gitignore",
		},
		"forbidden_files_specific": []string{
			".cargo/config.toml",
			"rust-toolchain",
		},
		"allowed_dirs": []string{"experimental", "testing"},
		"exclusions": map[string]interface{}{
			CheckBuild:   []string{"marker"},
			CheckVersion: []string{"restriction"},
			CheckConfig:  []string{"straggler"},
			CheckChannel: []string{"marker", "straggler"},
		},
		"build_command": []string{"cargo", "test", "--lib", "--tests"},
		"build_timeout": 0,
		"log": map[string]interface{}{
			"level":  "warn",
			"format": "console",
		},
	}
}
