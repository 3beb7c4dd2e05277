// Package debugs inspects compiled closures from a starlark REPL.
package debugs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tailambda/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
