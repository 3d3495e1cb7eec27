package shell

var (
	ResolveEnvironment = resolveEnvironment
	RewriteMount       = rewriteMount
)
