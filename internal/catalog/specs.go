package catalog

import "strings"

type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseSpecifications splits "CPU: M2, RAM: 8GB" into ordered pairs. A part
// without a colon becomes a key with an empty value.
func ParseSpecifications(s string) []Spec {
	out := []Spec{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, ":")
		out = append(out, Spec{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return out
}
