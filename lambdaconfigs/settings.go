package lambdaconfigs

import (
	"slices"

	"github.com/reusee/tailambda/configs"
	"github.com/samber/lo"
)

// ExtensionNamespaces are the namespaces whose extension methods calls may bind to.
type ExtensionNamespaces []string

func (Module) ExtensionNamespaces(
	loader configs.Loader,
) ExtensionNamespaces {
	var ret []string
	for list := range configs.All[[]string](loader, "namespaces") {
		ret = append(ret, list...)
	}
	ret = append(ret, *namespaceFlags...)
	return lo.Uniq(ret)
}

// Global declares a host variable visible to every compilation.
type Global struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type Globals []Global

// Globals merges the declarations of all config files; the first file
// declaring a name wins.
func (Module) Globals(
	loader configs.Loader,
) (ret Globals) {
	for list := range configs.All[[]Global](loader, "globals") {
		for _, global := range list {
			if slices.ContainsFunc(ret, func(g Global) bool {
				return g.Name == global.Name
			}) {
				continue
			}
			ret = append(ret, global)
		}
	}
	return
}

// Signature is the default closure signature, by type names.
// A zero Signature means the signature is inferred from the block.
type Signature struct {
	Params []string `json:"params"`
	Result string   `json:"result"`
}

func (s Signature) IsZero() bool {
	return len(s.Params) == 0 && s.Result == ""
}

func (Module) Signature(
	loader configs.Loader,
) Signature {
	return configs.First[Signature](loader, "signature")
}
