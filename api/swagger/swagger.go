// Package swagger embeds the OpenAPI document served at /openapi.json.
package swagger

import _ "embed"

// Spec is the OpenAPI 2.0 description of the REST API.
//
//go:embed user.swagger.json
var Spec []byte
