package ctxkey

type iflowscanContextKey string

// APIUser - the context key for the currently authenticated API caller
var APIUser = iflowscanContextKey("API_USER")

// APIFunc - the context key for the currently executing API function
var APIFunc = iflowscanContextKey("API_FN")
