package routes

import "net/http"

const (
	ROOT = "/"

	INDEX     = http.MethodGet + " " + ROOT + "{$}" // bundled static page
	NOT_FOUND = ROOT                                // everything unmatched

	GET_HOSTS   = http.MethodPost + " " + ROOT + "get-hosts"
	ADD_HOST    = http.MethodPost + " " + ROOT + "add-host"
	DELETE_HOST = http.MethodPost + " " + ROOT + "delete-host"
	EDIT_HOST   = http.MethodPost + " " + ROOT + "edit-host"

	METRICS = http.MethodGet + " " + ROOT + "metrics" // prometheus scrape endpoint
)
