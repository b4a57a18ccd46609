package api

import (
	"net/http"

	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/network/httputils"
	"agora.network/agora/lib/version"
)

func (api GovernanceHandlerAPI) GetInfoHandler(w http.ResponseWriter, r *http.Request) {
	total, err := membership.GetTotalWeight(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, map[string]interface{}{
		"version":      version.ToDetailVersion(),
		"total_weight": total,
	})
}
