package bootstrap

import (
	"errors"
	"net/http"

	"vagas-dashboard/internal/apiclient"
)

// ErrorKind is the closed classification of a failed check.
type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"
	KindUnavailable ErrorKind = "unavailable"  // 502, 503
	KindServerError ErrorKind = "server_error" // 500
	KindHTTPStatus  ErrorKind = "http_status"
	KindUnknown     ErrorKind = "unknown"
)

// Classify inspects err independently of any step.
func Classify(err error) ErrorKind {
	var ne *apiclient.NetworkError
	if errors.As(err, &ne) {
		return KindNetwork
	}
	var he *apiclient.HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable:
			return KindUnavailable
		case http.StatusInternalServerError:
			return KindServerError
		}
		return KindHTTPStatus
	}
	return KindUnknown
}

type Hint struct {
	Code string
	Text string
}

func (h Hint) String() string { return h.Code + ": " + h.Text }

var (
	hintNetwork         = Hint{"NETWORK_ERROR", "Verificar se o backend está rodando e acessível em api.base_url"}
	hintBackendSleeping = Hint{"BACKEND_SLEEPING", "Serviço pode estar dormindo no Render. Aguarde 30-50s e tente novamente."}
	hintAPIUnreachable  = Hint{"API_UNREACHABLE", "Verificar URL da API e se o serviço está ativo no Render"}
	hintDatabaseError   = Hint{"DATABASE_ERROR", "Verificar DATABASE_URL no Render e se o Neon está ativo"}
	hintDatabaseQuery   = Hint{"DATABASE_QUERY_FAILED", "Verificar conexão com PostgreSQL"}
	hintStatsEndpoint   = Hint{"STATS_ENDPOINT_ERROR", "Verificar rota /api/stats/ no backend"}
)

type hintKey struct {
	step StepID
	kind ErrorKind
}

// hints is keyed by (step, kind); "" as kind is the step's fallback.
var hints = map[hintKey]Hint{
	{StepAPI, KindUnavailable}:      hintBackendSleeping,
	{StepAPI, ""}:                   hintAPIUnreachable,
	{StepDatabase, KindServerError}: hintDatabaseError,
	{StepDatabase, ""}:              hintDatabaseQuery,
	{StepStats, ""}:                 hintStatsEndpoint,
}

// Suggest picks the remediation hint for a failure. Network errors win
// over the step, since no step-specific cause can be diagnosed without a
// response.
func Suggest(step StepID, kind ErrorKind, message string) Hint {
	if kind == KindNetwork {
		return hintNetwork
	}
	if h, ok := hints[hintKey{step, kind}]; ok {
		return h
	}
	if h, ok := hints[hintKey{step, ""}]; ok {
		return h
	}
	return Hint{"UNKNOWN_ERROR", message}
}

// Failure describes the step that halted the sequence.
type Failure struct {
	Step       StepID    `json:"step"`
	Label      string    `json:"label"`
	Endpoint   string    `json:"endpoint"`
	Message    string    `json:"message"`
	Status     int       `json:"status,omitempty"`
	Kind       ErrorKind `json:"kind"`
	Suggestion string    `json:"suggestion"`
}

func newFailure(s Step, err error) *Failure {
	kind := Classify(err)
	msg := apiclient.Detail(err)
	return &Failure{
		Step:       s.ID,
		Label:      s.Label,
		Endpoint:   s.Endpoint,
		Message:    msg,
		Status:     apiclient.StatusCode(err),
		Kind:       kind,
		Suggestion: Suggest(s.ID, kind, msg).String(),
	}
}
