package httpapi

import (
	"net/http"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"vagas-dashboard/internal/config"
)

// ConfigHandler shows the configuration the process runs with. Editing
// happens in the file; the dashboard never writes it.
type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
}

func (h ConfigHandler) current() config.Config {
	cfg, _ := h.CfgVal.Load().(config.Config)
	return cfg
}

// Get answers in the same YAML shape as the file on disk.
func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := yaml.Marshal(h.current())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "config_encode", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(b)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, err := filepath.Abs(h.UserCfgPath)
	if err != nil {
		abs = h.UserCfgPath
	}
	writeJSON(w, map[string]string{"path": abs})
}

type validateResponse struct {
	OK bool `json:"ok"`
	config.Validation
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.current())
	writeJSON(w, validateResponse{OK: vr.OK(), Validation: vr})
}
