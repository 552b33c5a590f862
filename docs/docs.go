// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "APIToken": {"type": "apiKey", "name": "Authorization", "in": "header", "description": "Bearer shop_..."},
        "Session": {"type": "apiKey", "name": "access_token", "in": "cookie"}
    },
    "paths": {
        "/csrf-token": {
            "get": {
                "tags": ["CSRF"],
                "summary": "Issue CSRF token",
                "description": "Returns the live token of the shop_session cookie, minting one when needed.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/csrfTokenEnvelope"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/csrf-token/refresh": {
            "post": {
                "tags": ["CSRF"],
                "summary": "Rotate CSRF token",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/csrfTokenEnvelope"}}
                }
            }
        },
        "/csrf-token/verify": {
            "post": {
                "tags": ["CSRF"],
                "summary": "Check a CSRF token",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-CSRF-Token", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/admin/tokens": {
            "get": {
                "security": [{"Session": []}],
                "tags": ["API Tokens"],
                "summary": "List own API tokens",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "post": {
                "security": [{"Session": []}],
                "tags": ["API Tokens"],
                "summary": "Issue API token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-CSRF-Token", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateAPITokenRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "419": {"description": "CSRF token mismatch", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/admin/tokens/{sid}": {
            "delete": {
                "security": [{"Session": []}],
                "tags": ["API Tokens"],
                "summary": "Revoke API token",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "sid", "in": "path", "required": true},
                    {"type": "string", "name": "X-CSRF-Token", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/admin/posts/preview": {
            "post": {
                "security": [{"Session": []}],
                "tags": ["Posts"],
                "summary": "Render sanitized markdown preview",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-CSRF-Token", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PreviewPostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/orders": {
            "get": {
                "security": [{"APIToken": []}],
                "tags": ["Orders"],
                "summary": "List orders",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            },
            "post": {
                "security": [{"APIToken": []}],
                "tags": ["Orders"],
                "summary": "Create order",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/orders/{code}": {
            "get": {
                "security": [{"APIToken": []}],
                "tags": ["Orders"],
                "summary": "Get order",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/orders/{code}/status": {
            "patch": {
                "security": [{"APIToken": []}],
                "tags": ["Orders"],
                "summary": "Change order status",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "code", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateOrderStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/reports/revenue": {
            "get": {
                "security": [{"APIToken": []}],
                "tags": ["Reports"],
                "summary": "Revenue report",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "default": "daily", "name": "type", "in": "query"},
                    {"type": "string", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.APIResponse"}}
                }
            }
        },
        "/api/v1/reports/revenue/export": {
            "get": {
                "security": [{"APIToken": []}],
                "tags": ["Reports"],
                "summary": "Export revenue report",
                "produces": ["text/csv"],
                "parameters": [
                    {"type": "string", "default": "daily", "name": "type", "in": "query"},
                    {"type": "string", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}}
                }
            }
        }
    },
    "definitions": {
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/utils.ErrorInfo"}
            }
        },
        "utils.ErrorInfo": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "csrf_mismatch"},
                "message": {"type": "string"},
                "details": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "retry_after": {"type": "integer"}
            }
        },
        "csrfTokenEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "csrf_token": {"type": "string"},
                        "expires_at": {"type": "string", "format": "date-time"}
                    }
                }
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 255},
                "password": {"type": "string", "maxLength": 128}
            }
        },
        "handlers.CreateAPITokenRequest": {
            "type": "object",
            "required": ["name", "permissions"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "permissions": {"type": "array", "items": {"type": "string", "example": "orders:read"}},
                "rate_limit": {"type": "integer", "minimum": 1},
                "expires_in_days": {"type": "integer", "minimum": 1, "maximum": 3650}
            }
        },
        "handlers.PreviewPostRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string"}
            }
        },
        "handlers.CreateOrderItemRequest": {
            "type": "object",
            "required": ["product_name", "quantity"],
            "properties": {
                "product_id": {"type": "integer"},
                "product_name": {"type": "string", "maxLength": 200},
                "quantity": {"type": "integer", "minimum": 1},
                "unit_price": {"type": "integer", "minimum": 0}
            }
        },
        "handlers.CreateOrderRequest": {
            "type": "object",
            "required": ["customer_name", "items"],
            "properties": {
                "customer_name": {"type": "string", "maxLength": 100},
                "customer_phone": {"type": "string", "maxLength": 20},
                "status": {"type": "string"},
                "payment_method": {"type": "string", "maxLength": 20},
                "items": {"type": "array", "items": {"$ref": "#/definitions/handlers.CreateOrderItemRequest"}},
                "discount": {"type": "integer", "minimum": 0},
                "shipping_fee": {"type": "integer", "minimum": 0},
                "note": {"type": "string", "maxLength": 1000}
            }
        },
        "handlers.UpdateOrderStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
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
	Title:            "Shop Admin API",
	Description:      "Back office API: orders, revenue reports, API tokens and CSRF session endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
