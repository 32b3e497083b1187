package authorize

// ResponseTypeHandler is one registered response type. Handlers are resolved
// at startup and filtered per request to exactly the requested types; the
// response-assembly stage invokes them after validation succeeds.
type ResponseTypeHandler interface {
	ResponseType() string
}

// Standard response types.
const (
	ResponseTypeCode    = "code"
	ResponseTypeIDToken = "id_token"
	ResponseTypeToken   = "token"
)

type codeResponseType struct{}

func (codeResponseType) ResponseType() string { return ResponseTypeCode }

type idTokenResponseType struct{}

func (idTokenResponseType) ResponseType() string { return ResponseTypeIDToken }

type tokenResponseType struct{}

func (tokenResponseType) ResponseType() string { return ResponseTypeToken }

// DefaultResponseTypeHandlers returns the handlers this server registers.
func DefaultResponseTypeHandlers() []ResponseTypeHandler {
	return []ResponseTypeHandler{codeResponseType{}, idTokenResponseType{}, tokenResponseType{}}
}

// ResponseTypeRegistry holds the registered handlers in a stable order.
type ResponseTypeRegistry struct {
	handlers []ResponseTypeHandler
}

func NewResponseTypeRegistry(handlers ...ResponseTypeHandler) *ResponseTypeRegistry {
	return &ResponseTypeRegistry{handlers: handlers}
}

// Select splits the requested types into matched handlers (registration
// order) and unsupported type names (request order).
func (r *ResponseTypeRegistry) Select(requested []string) (matched []ResponseTypeHandler, unsupported []string) {
	known := make(map[string]struct{}, len(r.handlers))
	for _, h := range r.handlers {
		known[h.ResponseType()] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(requested))
	for _, t := range requested {
		wanted[t] = struct{}{}
		if _, ok := known[t]; !ok {
			unsupported = append(unsupported, t)
		}
	}
	for _, h := range r.handlers {
		if _, ok := wanted[h.ResponseType()]; ok {
			matched = append(matched, h)
		}
	}
	return matched, unsupported
}

// Standard response modes.
const (
	ResponseModeQuery    = "query"
	ResponseModeFragment = "fragment"
	ResponseModeFormPost = "form_post"
)

// ResponseModeRegistry knows which response modes the server supports.
type ResponseModeRegistry struct {
	modes []string
}

func NewResponseModeRegistry(modes ...string) *ResponseModeRegistry {
	if len(modes) == 0 {
		modes = []string{ResponseModeQuery, ResponseModeFragment, ResponseModeFormPost}
	}
	return &ResponseModeRegistry{modes: modes}
}

// Supports reports whether the mode is registered.
func (r *ResponseModeRegistry) Supports(mode string) bool {
	for _, m := range r.modes {
		if m == mode {
			return true
		}
	}
	return false
}
