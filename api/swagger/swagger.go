package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Seatplan API",
        "description": "Constraint-based seat assignment for banquet and conference sessions.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Seating", "description": "Seat assignment proposals, swaps and violation reports"},
        {"name": "Observability", "description": "Service metrics"}
    ],
    "paths": {
        "/sessions/{sessionId}/seating/generate": {
            "post": {
                "tags": ["Seating"],
                "summary": "Generate a seating proposal",
                "description": "Runs placement, sit-together and sit-away passes over the session layout. The proposal is not persisted until applied.",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/GenerateSeatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run already in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Conflicting proximity rules", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/proposals/{proposalId}/apply": {
            "post": {
                "tags": ["Seating"],
                "summary": "Apply a seating proposal",
                "parameters": [
                    {"name": "proposalId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Proposal not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Seats changed since generation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/seating/violations": {
            "get": {
                "tags": ["Seating"],
                "summary": "List proximity rule violations of the current arrangement",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/seating/seats/{seatId}/swaps": {
            "get": {
                "tags": ["Seating"],
                "summary": "List swap partners for a seat",
                "description": "Perfect candidates leave no violation; imperfect ones are ordered by resulting violation count.",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "seatId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Seat not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Seat is locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/seating/swap": {
            "post": {
                "tags": ["Seating"],
                "summary": "Exchange the occupants of two seats",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SwapSeatsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Seat is locked or changed concurrently", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Seat mode does not accept the guest", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/seating/export": {
            "get": {
                "tags": ["Seating"],
                "summary": "Export the seating chart",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Seating chart file", "schema": {"type": "file"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated service metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SortRule": {
            "type": "object",
            "required": ["field"],
            "properties": {
                "field": {"type": "string", "enum": ["name", "country", "organization", "ranking"]},
                "direction": {"type": "string", "enum": ["asc", "desc"]}
            }
        },
        "TableRules": {
            "type": "object",
            "properties": {
                "ratio": {
                    "type": "object",
                    "properties": {
                        "enabled": {"type": "boolean"},
                        "internal": {"type": "integer"},
                        "external": {"type": "integer"}
                    }
                },
                "spacing": {
                    "type": "object",
                    "properties": {
                        "enabled": {"type": "boolean"},
                        "spacing": {"type": "integer"},
                        "startWithInternal": {"type": "boolean"}
                    }
                }
            }
        },
        "GenerateSeatingRequest": {
            "type": "object",
            "properties": {
                "sortRules": {"type": "array", "maxItems": 4, "items": {"$ref": "#/definitions/SortRule"}},
                "tableRules": {"$ref": "#/definitions/TableRules"},
                "clearUnlocked": {"type": "boolean", "default": true}
            }
        },
        "SwapSeatsRequest": {
            "type": "object",
            "required": ["seatA", "seatB"],
            "properties": {
                "seatA": {"type": "string"},
                "seatB": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
