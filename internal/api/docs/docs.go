// Package docs holds the OpenAPI document served at /swagger/*.
// Regenerate with: swag init -g internal/api/router.go -o internal/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/session/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign in against the reservation backend",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/session/logout": {
            "post": {
                "tags": ["session"],
                "summary": "Sign out and revoke the credential",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/session/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Replace the credential",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/rooms": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "List rooms",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Room"}}}}
            }
        },
        "/rooms/available": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Rooms free for a stay",
                "parameters": [
                    {"type": "string", "name": "checkIn", "in": "query"},
                    {"type": "string", "name": "checkOut", "in": "query"},
                    {"type": "string", "name": "roomType", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Room"}}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rooms"],
                "summary": "Get a room",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Room"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new account",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/bookings/mine": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Bookings of the signed-in user",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Booking"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/bookings/code/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Find a booking by confirmation code",
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Booking"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/bookings/{id}/cancel": {
            "put": {
                "tags": ["bookings"],
                "summary": "Cancel a booking",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/bookings/receipts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Locally journaled receipts of the signed-in user",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.BookingReceipt"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness of the backend and local stores",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/bookings/quote": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Price a stay",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.quoteRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.quoteResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/bookings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Validate and submit a booking",
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.BookingDraft"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Booking"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "field": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "initialized": {"type": "boolean"},
                "userId": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "email", "password", "fullName"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "fullName": {"type": "string"},
                "phoneNumber": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "fullName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.BookingReceipt": {
            "type": "object",
            "properties": {
                "booking_id": {"type": "integer"},
                "confirmation_code": {"type": "string"},
                "user_id": {"type": "string"},
                "room_id": {"type": "integer"},
                "guest_email": {"type": "string"},
                "check_in_date": {"type": "string"},
                "check_out_date": {"type": "string"},
                "nights": {"type": "integer"},
                "total_amount": {"type": "number"},
                "recorded_at": {"type": "string"}
            }
        },
        "handler.quoteRequest": {
            "type": "object",
            "required": ["roomId", "checkInDate", "checkOutDate"],
            "properties": {"roomId": {"type": "integer"}, "checkInDate": {"type": "string"}, "checkOutDate": {"type": "string"}}
        },
        "handler.quoteResponse": {
            "type": "object",
            "properties": {
                "roomId": {"type": "integer"},
                "nights": {"type": "integer"},
                "nightlyRate": {"type": "number"},
                "totalAmount": {"type": "number"}
            }
        },
        "domain.Room": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "roomNumber": {"type": "string"},
                "type": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "capacity": {"type": "integer"},
                "status": {"type": "string"},
                "photo": {"type": "string"}
            }
        },
        "domain.BookingDraft": {
            "type": "object",
            "required": ["roomId", "guestFullName", "guestEmail", "checkInDate", "checkOutDate"],
            "properties": {
                "roomId": {"type": "integer"},
                "guestFullName": {"type": "string"},
                "guestEmail": {"type": "string"},
                "checkInDate": {"type": "string"},
                "checkOutDate": {"type": "string"},
                "numberOfGuests": {"type": "integer"},
                "specialRequests": {"type": "string"}
            }
        },
        "domain.Booking": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "confirmationCode": {"type": "string"},
                "roomId": {"type": "integer"},
                "checkInDate": {"type": "string"},
                "checkOutDate": {"type": "string"},
                "totalAmount": {"type": "number"},
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Reservation Gateway API",
	Description:      "Local gateway between the hotel booking UI and the reservation backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
