package health

// Service reports what the running process was wired with.
type Service struct {
	storeType string
	model     string
}

// NewService constructs a health service. model may be empty when the
// client does not expose one.
func NewService(storeType, model string) *Service {
	return &Service{storeType: storeType, model: model}
}

// Status returns the /healthz payload.
func (s *Service) Status() map[string]any {
	out := map[string]any{"ok": true, "store": s.storeType}
	if s.model != "" {
		out["model"] = s.model
	}
	return out
}
