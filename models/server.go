// File: models/server.go
package models

// Servers is the body of GET /api/servers: game server status keyed by
// server name. The upstream owns the shape of each entry.
type Servers map[string]interface{}
