// Package docs contiene la especificación OpenAPI de la API de moltmon.
// Se sirve en /swagger/doc.json.
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
        "/api/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Estado completo de la mascota",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pet.StateData"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/api/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Estado resumido",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/care.Status"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/api/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Historial de mascotas",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pet.History"}}
                }
            }
        },
        "/api/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Resumen de la mascota actual",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pet.Summary"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/api/feed": {
            "post": {
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Alimentar",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/care.Receipt"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "409": {"description": "pet is not hungry", "schema": {"type": "string"}}
                }
            }
        },
        "/api/clean": {
            "post": {
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Limpiar",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/care.Receipt"}},
                    "409": {"description": "nothing to clean", "schema": {"type": "string"}}
                }
            }
        },
        "/api/heal": {
            "post": {
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Curar",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/care.Receipt"}},
                    "409": {"description": "pet is not sick", "schema": {"type": "string"}}
                }
            }
        },
        "/api/hatch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["care"],
                "summary": "Eclosionar el huevo",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/care.hatchRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/care.Receipt"}},
                    "400": {"description": "invalid json", "schema": {"type": "string"}},
                    "409": {"description": "pet is not an egg", "schema": {"type": "string"}}
                }
            }
        },
        "/api/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["journal"],
                "summary": "Diario de eventos del ciclo de vida",
                "parameters": [
                    {"type": "integer", "name": "pet_id", "in": "query"},
                    {"type": "string", "name": "events", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/journal.Entry"}}}
                }
            }
        },
        "/api/archive": {
            "get": {
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Listar mascotas archivadas",
                "parameters": [
                    {"type": "boolean", "name": "alive", "in": "query"},
                    {"type": "string", "name": "cause", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pet.Summary"}}}
                }
            }
        },
        "/api/archive/records": {
            "get": {
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Récords de todas las vidas",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/archive.Records"}}
                }
            }
        },
        "/api/archive/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Resumen archivado de una mascota",
                "parameters": [
                    {"type": "integer", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pet.Summary"}},
                    "404": {"description": "pet not found in archive", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "pet.Stats": {
            "type": "object",
            "properties": {
                "timesFed": {"type": "integer"},
                "timesSick": {"type": "integer"},
                "timesPooped": {"type": "integer"},
                "timesCleaned": {"type": "integer"},
                "bornAt": {"type": "integer"},
                "diedAt": {"type": "integer"},
                "causeOfDeath": {"type": "string", "enum": ["STARVATION", "UNTREATED_SICKNESS"]},
                "personality": {"type": "string"}
            }
        },
        "pet.StateData": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["EGG", "HATCHING", "IDLE", "HUNGRY", "SICK", "DEAD"]},
                "lastEvent": {"type": "string"},
                "lastEventTime": {"type": "integer"},
                "hungerTimerStart": {"type": "integer"},
                "lastFedTime": {"type": "integer"},
                "createdAt": {"type": "integer"},
                "poopCount": {"type": "integer"},
                "nextPoopTime": {"type": "integer"},
                "sicknessStartTime": {"type": "integer"},
                "poopSicknessDeadline": {"type": "integer"},
                "hungryStartTime": {"type": "integer"},
                "petId": {"type": "integer"},
                "stats": {"$ref": "#/definitions/pet.Stats"},
                "creatureId": {"type": "string"}
            }
        },
        "pet.Summary": {
            "type": "object",
            "properties": {
                "petId": {"type": "integer"},
                "bornAt": {"type": "integer"},
                "diedAt": {"type": "integer"},
                "survivalTimeMs": {"type": "integer"},
                "stats": {"$ref": "#/definitions/pet.Stats"},
                "isAlive": {"type": "boolean"}
            }
        },
        "pet.History": {
            "type": "object",
            "properties": {
                "pets": {"type": "array", "items": {"$ref": "#/definitions/pet.Summary"}},
                "currentPetId": {"type": "integer"}
            }
        },
        "care.Status": {
            "type": "object",
            "properties": {
                "state": {"type": "string"},
                "lastEvent": {"type": "string"},
                "timeSinceLastEventMs": {"type": "integer"},
                "isHungry": {"type": "boolean"},
                "isSick": {"type": "boolean"},
                "isDead": {"type": "boolean"},
                "poopCount": {"type": "integer"},
                "needsFeeding": {"type": "boolean"},
                "needsCleaning": {"type": "boolean"},
                "needsHealing": {"type": "boolean"},
                "petId": {"type": "integer"},
                "creatureId": {"type": "string"},
                "stats": {"$ref": "#/definitions/pet.Stats"}
            }
        },
        "care.Receipt": {
            "type": "object",
            "properties": {
                "commandId": {"type": "string"},
                "type": {"type": "string", "enum": ["FEED", "CLEAN", "HEAL", "HATCH"]},
                "message": {"type": "string"},
                "creatureId": {"type": "string"},
                "personality": {"type": "string"}
            }
        },
        "care.hatchRequest": {
            "type": "object",
            "properties": {
                "personality": {"type": "string", "example": "curious"}
            }
        },
        "journal.Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "petId": {"type": "integer"},
                "event": {"type": "string"},
                "state": {"type": "string"},
                "at": {"type": "string", "format": "date-time"}
            }
        },
        "archive.Records": {
            "type": "object",
            "properties": {
                "pets": {"type": "integer"},
                "deaths": {"type": "integer"},
                "deathsByCause": {"type": "object", "additionalProperties": {"type": "integer"}},
                "longestSurvival": {"$ref": "#/definitions/pet.Summary"},
                "totalTimesFed": {"type": "integer"},
                "totalTimesCleaned": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Moltmon API",
	Description:      "Mascota virtual compartida entre procesos: estado, comandos de cuidado, diario y archivo.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
