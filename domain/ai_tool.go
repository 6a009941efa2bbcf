package domain

import "encoding/json"

type ToolInput map[string]string

type ToolField struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Required  bool     `json:"required"`
	MaxLength int      `json:"maxLength"`
	Options   []string `json:"options,omitempty"`
}

type ToolInfo struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []ToolField `json:"fields"`
	JSONMode    bool        `json:"jsonMode"`
}

type ToolResponse struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}
