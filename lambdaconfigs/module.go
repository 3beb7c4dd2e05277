// Package lambdaconfigs provides compiler settings read from lambdac.cue.
package lambdaconfigs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tailambda/cmds"
	"github.com/reusee/tailambda/configs"
)

type Module struct {
	dscope.Module
}

const Schema = `
namespaces?: [...string]
globals?: [...{
	name: string
	type?: string
	value?: _
}]
signature?: {
	params?: [...string]
	result?: string
}
`

var (
	configFiles    = cmds.Collect[string]("-config")
	namespaceFlags = cmds.Collect[string]("-namespace")
)

type ConfigFiles []string

func (Module) ConfigFiles() ConfigFiles {
	if len(*configFiles) > 0 {
		return *configFiles
	}
	return configs.Search("lambdac", "lambdac.cue", ".lambdac.cue")
}

func (Module) Loader(
	files ConfigFiles,
) configs.Loader {
	return configs.NewLoader(files, Schema)
}
