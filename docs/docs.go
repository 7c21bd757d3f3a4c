// Package docs holds the OpenAPI document served at /swagger/*any.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "API Support",
			"url": "https://github.com/guttosm/tradelens"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/api/v1/report": {
			"get": {
				"description": "Returns every aggregation view computed from the dataset",
				"produces": [
					"application/json"
				],
				"tags": [
					"views"
				],
				"summary": "Get the full report",
				"responses": {
					"200": {
						"description": "Success",
						"schema": {
							"$ref": "#/definitions/models.Report"
						}
					},
					"500": {
						"description": "Internal Error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"503": {
						"description": "Report not available",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/views": {
			"get": {
				"description": "Lists the available views with their paths",
				"produces": [
					"application/json"
				],
				"tags": [
					"views"
				],
				"summary": "List views",
				"responses": {
					"200": {
						"description": "Success",
						"schema": {
							"$ref": "#/definitions/dto.ViewIndexResponse"
						}
					},
					"500": {
						"description": "Internal Error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"503": {
						"description": "Report not available",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/v1/views/{name}": {
			"get": {
				"description": "Returns one aggregation view by name",
				"produces": [
					"application/json"
				],
				"tags": [
					"views"
				],
				"summary": "Get one view",
				"parameters": [
					{
						"type": "string",
						"example": "top_investments",
						"description": "View name",
						"name": "name",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "Success",
						"schema": {
							"$ref": "#/definitions/dto.ViewResponse"
						}
					},
					"404": {
						"description": "View not found",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Error",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					},
					"503": {
						"description": "Report not available",
						"schema": {
							"$ref": "#/definitions/dto.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"dto.ErrorResponse": {
			"type": "object",
			"properties": {
				"error_details": {
					"type": "string",
					"example": "unknown view \"foo\""
				},
				"message": {
					"type": "string",
					"example": "view not found"
				},
				"timestamp": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"dto.ViewIndexResponse": {
			"type": "object",
			"properties": {
				"generated_at": {
					"type": "string",
					"format": "date-time"
				},
				"transactions": {
					"type": "integer"
				},
				"views": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.ViewLink"
					}
				}
			}
		},
		"dto.ViewLink": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"example": "sector_allocation"
				},
				"path": {
					"type": "string",
					"example": "/api/v1/views/sector_allocation"
				}
			}
		},
		"dto.ViewResponse": {
			"type": "object",
			"properties": {
				"data": {
					"description": "One of the view structures of models.Report"
				},
				"generated_at": {
					"type": "string",
					"format": "date-time"
				},
				"name": {
					"type": "string"
				},
				"transactions": {
					"type": "integer"
				}
			}
		},
		"models.AgeBucket": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"high": {
					"type": "integer"
				},
				"low": {
					"type": "integer"
				}
			}
		},
		"models.BrokerPerformance": {
			"type": "object",
			"properties": {
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.BrokerValue"
					}
				}
			}
		},
		"models.BrokerValue": {
			"type": "object",
			"properties": {
				"broker": {
					"type": "string"
				},
				"count": {
					"type": "integer"
				},
				"value": {
					"type": "string",
					"example": "1234.56"
				}
			}
		},
		"models.Demographics": {
			"type": "object",
			"properties": {
				"age_buckets": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.AgeBucket"
					}
				},
				"genders": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.GenderCount"
					}
				},
				"median_age": {
					"type": "integer"
				},
				"mode_age": {
					"type": "integer"
				},
				"mode_gender": {
					"type": "string"
				},
				"mode_horizon": {
					"type": "string"
				}
			}
		},
		"models.GenderCount": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"gender": {
					"type": "string"
				}
			}
		},
		"models.MonthValue": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"month": {
					"type": "string",
					"format": "date-time"
				},
				"value": {
					"type": "string",
					"example": "1234.56"
				}
			}
		},
		"models.MonthlyTrend": {
			"type": "object",
			"properties": {
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.MonthValue"
					}
				}
			}
		},
		"models.OutlierRow": {
			"type": "object",
			"properties": {
				"ticker": {
					"type": "string"
				},
				"total_value": {
					"type": "string",
					"example": "1234.56"
				},
				"transaction_id": {
					"type": "integer"
				}
			}
		},
		"models.Outliers": {
			"type": "object",
			"properties": {
				"above": {
					"type": "integer"
				},
				"below": {
					"type": "integer"
				},
				"iqr": {
					"type": "string",
					"example": "1234.56"
				},
				"lower_fence": {
					"type": "string",
					"example": "1234.56"
				},
				"median": {
					"type": "string",
					"example": "1234.56"
				},
				"q1": {
					"type": "string",
					"example": "1234.56"
				},
				"q3": {
					"type": "string",
					"example": "1234.56"
				},
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.OutlierRow"
					}
				},
				"share": {
					"type": "string",
					"example": "1234.56"
				},
				"total": {
					"type": "integer"
				},
				"upper_fence": {
					"type": "string",
					"example": "1234.56"
				}
			}
		},
		"models.ProfitLoss": {
			"type": "object",
			"properties": {
				"by_sector": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.SectorValue"
					}
				},
				"by_ticker": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.TickerValue"
					}
				},
				"total": {
					"type": "string",
					"example": "1234.56"
				}
			}
		},
		"models.Report": {
			"type": "object",
			"properties": {
				"broker_performance": {
					"$ref": "#/definitions/models.BrokerPerformance"
				},
				"customer_demographics": {
					"$ref": "#/definitions/models.Demographics"
				},
				"generated_at": {
					"type": "string",
					"format": "date-time"
				},
				"monthly_trend": {
					"$ref": "#/definitions/models.MonthlyTrend"
				},
				"profit_loss": {
					"$ref": "#/definitions/models.ProfitLoss"
				},
				"return_analysis": {
					"$ref": "#/definitions/models.ReturnAnalysis"
				},
				"risk_analysis": {
					"$ref": "#/definitions/models.RiskAnalysis"
				},
				"sector_allocation": {
					"$ref": "#/definitions/models.SectorAllocation"
				},
				"sector_performance": {
					"$ref": "#/definitions/models.SectorPerformance"
				},
				"top_investments": {
					"$ref": "#/definitions/models.TopInvestments"
				},
				"total_value_outliers": {
					"$ref": "#/definitions/models.Outliers"
				},
				"transaction_volume": {
					"$ref": "#/definitions/models.TransactionVolume"
				},
				"transactions": {
					"type": "integer"
				}
			}
		},
		"models.ReturnAnalysis": {
			"type": "object",
			"properties": {
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.SectorValue"
					}
				}
			}
		},
		"models.RiskAnalysis": {
			"type": "object",
			"properties": {
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.TypeShare"
					}
				},
				"total": {
					"type": "integer"
				}
			}
		},
		"models.SectorAllocation": {
			"type": "object",
			"properties": {
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.SectorValue"
					}
				},
				"total": {
					"type": "string",
					"example": "1234.56"
				}
			}
		},
		"models.SectorPerformance": {
			"type": "object",
			"properties": {
				"leader": {
					"type": "string"
				},
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.SectorValue"
					}
				},
				"window_end": {
					"type": "string",
					"format": "date-time"
				},
				"window_start": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"models.SectorValue": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"sector": {
					"type": "string"
				},
				"value": {
					"type": "string",
					"example": "1234.56"
				}
			}
		},
		"models.TickerValue": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"sector": {
					"type": "string"
				},
				"ticker": {
					"type": "string"
				},
				"value": {
					"type": "string",
					"example": "1234.56"
				}
			}
		},
		"models.TopInvestments": {
			"type": "object",
			"properties": {
				"n": {
					"type": "integer"
				},
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.TickerValue"
					}
				}
			}
		},
		"models.TransactionVolume": {
			"type": "object",
			"properties": {
				"rows": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.MonthValue"
					}
				}
			}
		},
		"models.TypeShare": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"proportion": {
					"type": "string",
					"example": "1234.56"
				},
				"transaction_type": {
					"type": "string"
				},
				"value": {
					"type": "string",
					"example": "1234.56"
				}
			}
		}
	},
	"tags": [
		{
			"description": "Aggregation views of the computed report",
			"name": "views"
		}
	]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "tradelens API",
	Description:      "Read-only views over a synthetic transaction dataset.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
