package actions

import (
	"context"
	"strings"

	"github.com/r3e-network/defi-dispatcher/internal/apperr"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/envelope"
	"github.com/r3e-network/defi-dispatcher/internal/params"
	"github.com/r3e-network/defi-dispatcher/internal/registry/providers"
)

var providersListAliases = envelope.NewAliases("name", "categories", "capabilities", "capability_auth", "auth")

func handleProvidersList(ctx context.Context, env *dispatch.Env, p map[string]interface{}) (envelope.Fields, *apperr.DispatchError) {
	category := params.String(p, "category")
	capability := params.String(p, "capability")
	name := params.String(p, "name")
	selectRaw := params.String(p, "select")
	resultsOnly := params.Bool(p, "resultsOnly", false)

	all := providers.All()
	var rows []envelope.Fields
	for _, pr := range all {
		if category != "" && !pr.HasCategory(category) {
			continue
		}
		if capability != "" && !pr.HasCapability(capability) {
			continue
		}
		if name != "" && !strings.EqualFold(pr.Name, name) {
			continue
		}
		var capAuth []envelope.Fields
		auth := ""
		for _, ca := range pr.CapabilityAuth {
			capAuth = append(capAuth, envelope.Fields{"capability": ca.Capability, "auth": ca.Auth})
			if auth == "" {
				auth = ca.Auth
			}
		}
		rows = append(rows, envelope.Fields{
			"name":            pr.Name,
			"categories":      pr.Categories,
			"capabilities":    pr.Capabilities,
			"capability_auth": capAuth,
			"auth":            auth,
		})
	}

	if params.Present(p, "select") {
		keys, err := envelope.ParseSelect(selectRaw, providersListAliases)
		if err != nil {
			return nil, err
		}
		rows = envelope.ProjectRows(rows, keys)
	}

	return envelope.Shape(envelope.Fields{"providers": rows}, "", resultsOnly, nil)
}
