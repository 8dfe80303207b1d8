package art

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将构图输出为 JSON，便于调试或可视化。
func WriteDebugJSON(c *Composition, path string) error {
	if c == nil {
		return nil
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
