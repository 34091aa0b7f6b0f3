package config

// Safe type assertion helpers prevent panics when accessing dynamic
// configuration decoded from YAML or JSON documents.

// GetString safely extracts a string value from a config map
func GetString(cfg map[string]any, key string, defaultVal string) string {
	if val, ok := cfg[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// GetMap safely extracts a nested map value from a config map
func GetMap(cfg map[string]any, key string) (map[string]any, bool) {
	if val, ok := cfg[key]; ok {
		if m, ok := val.(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

// GetBool safely extracts a boolean value from a config map
func GetBool(cfg map[string]any, key string, defaultVal bool) bool {
	if val, ok := cfg[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultVal
}
