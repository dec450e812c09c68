// Package docs содержит swagger-документ Auto-Pay API, который отдаётся по /docs.
// Описание поддерживается вручную вместе с аннотациями обработчиков.
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
        "/autopay": {
            "get": {
                "produces": ["application/json"],
                "tags": ["AutoPay"],
                "summary": "Получить карточку Auto-Pay",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}}
                }
            }
        },
        "/autopay/actions/{action}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["AutoPay"],
                "summary": "Выполнить действие карточки",
                "parameters": [
                    {
                        "enum": ["enable", "manage", "resume", "disable", "fix_payment_method", "clear_error"],
                        "type": "string",
                        "description": "Действие",
                        "name": "action",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "409": {"description": "Операция уже выполняется", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Действие недоступно или не прошло валидацию", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "502": {"description": "Ошибка платёжного сервиса", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/debug/payment-failure": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Debug"],
                "summary": "Имитировать неудачный платёж",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "409": {"description": "Операция уже выполняется", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Недопустимо в текущем статусе", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/activation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Activation"],
                "summary": "Состояние диалога активации",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Activation"],
                "summary": "Закрыть диалог активации",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "409": {"description": "Идёт аутентификация", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/activation/select": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Activation"],
                "summary": "Выбрать способ оплаты",
                "parameters": [
                    {
                        "description": "Способ оплаты",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/activation.SelectRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации или неверный шаг", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/activation/continue": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Activation"],
                "summary": "Перейти к аутентификации",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "422": {"description": "Способ оплаты не выбран", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/activation/authenticate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Activation"],
                "summary": "Пройти аутентификацию",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "422": {"description": "Неверный шаг", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/management": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Management"],
                "summary": "Состояние диалога управления",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Management"],
                "summary": "Закрыть диалог управления",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/autopay/management/pause": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Management"],
                "summary": "Приостановить Auto-Pay на один цикл",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "422": {"description": "Неверный шаг", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/management/disable": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Management"],
                "summary": "Запросить выключение Auto-Pay",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "422": {"description": "Неверный шаг", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/management/confirm": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Management"],
                "summary": "Подтвердить выключение Auto-Pay",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "422": {"description": "Неверный шаг", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/autopay/management/back": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Management"],
                "summary": "Вернуться с подтверждения",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "422": {"description": "Неверный шаг", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "activation.SelectRequest": {
            "type": "object",
            "required": ["method_id"],
            "properties": {
                "method_id": {"type": "string", "maxLength": 32, "example": "twint"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid request body"},
                "status": {"type": "string", "example": "Error"}
            }
        },
        "response.OKResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "status": {"type": "string", "example": "OK"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Auto-Pay API",
	Description:      "Управление автоматической оплатой счетов: карточка, диалоги активации и управления.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
