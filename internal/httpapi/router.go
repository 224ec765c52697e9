package httpapi

import "net/http"

// NewMux wires every route of the dashboard.
func NewMux(d Deps, pages *Pages) *http.ServeMux {
	mux := http.NewServeMux()

	ph := PageHandler{Root: d.Root, Pages: pages, Hub: d.Hub, APIBaseURL: d.APIBaseURL}
	mux.HandleFunc("/", MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Index,
	}))
	mux.HandleFunc("/filtros/limpar", MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.ClearFilters,
	}))

	hh := HealthHandler{Root: d.Root}
	mux.HandleFunc("/health", MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Bootstrap
	bh := BootstrapHandler{Root: d.Root}
	mux.HandleFunc("/bootstrap", MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: bh.Status,
	}))
	mux.HandleFunc("/bootstrap/retry", MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: bh.Retry,
	}))

	// Listings
	lh := ListingsHandler{Root: d.Root}
	mux.HandleFunc("/vagas/", MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.StatusByPath, // expects /vagas/{id}/status
	}))

	// Collect
	ch := CollectHandler{Root: d.Root}
	mux.HandleFunc("/coletar", MethodMux(map[string]http.HandlerFunc{
		http.MethodPost: ch.Run,
	}))
	mux.HandleFunc("/coletar/status", MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Status,
	}))

	// Config
	if d.CfgVal != nil {
		cfh := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath}
		mux.HandleFunc("/config", MethodMux(map[string]http.HandlerFunc{
			http.MethodGet: cfh.Get,
		}))
		mux.HandleFunc("/config/path", MethodMux(map[string]http.HandlerFunc{
			http.MethodGet: cfh.Path,
		}))
		mux.HandleFunc("/config/validate", MethodMux(map[string]http.HandlerFunc{
			http.MethodGet: cfh.Validate,
		}))
	}

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	mux.Handle("/static/", staticHandler())

	return mux
}

// NewRouter is the mux behind the standard middleware chain.
func NewRouter(d Deps) (http.Handler, error) {
	pages, err := LoadPages()
	if err != nil {
		return nil, err
	}
	return Chain(NewMux(d, pages), RequestID, AccessLog, Recover, NoStore), nil
}
