// Package api embeds the OpenAPI description of the REST interface.
package api

import _ "embed"

// OpenAPI is the OpenAPI 3 document served at /swagger/openapi.json.
//
//go:embed openapi.json
var OpenAPI []byte
