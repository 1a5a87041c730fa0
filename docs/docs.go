// Package docs регистрирует OpenAPI-описание для /swagger/.
// Перегенерировать: swag init -g cmd/main.go
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
		"/api/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Вход по email и паролю",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"429": {
						"description": "Too Many Requests"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/auth/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Профиль текущего пользователя",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/auth/forgot-password": {
			"post": {
				"tags": [
					"password"
				],
				"summary": "Запрос восстановления пароля",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"429": {
						"description": "Too Many Requests"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/auth/reset-password": {
			"post": {
				"tags": [
					"password"
				],
				"summary": "Сброс пароля по токену",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"429": {
						"description": "Too Many Requests"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/projects": {
			"get": {
				"tags": [
					"projects"
				],
				"summary": "Одобренные проекты",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/blogs": {
			"get": {
				"tags": [
					"blog"
				],
				"summary": "Опубликованные посты",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/blogs/{slug}": {
			"get": {
				"tags": [
					"blog"
				],
				"summary": "Пост по slug",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/blogs/{slug}/reaction": {
			"post": {
				"tags": [
					"blog"
				],
				"summary": "Реакция на пост",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/blogs/{slug}/comment": {
			"post": {
				"tags": [
					"blog"
				],
				"summary": "Комментарий к посту",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "slug",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/skills": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "Навыки",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/experience": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "Опыт работы",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/education": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "Образование",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/social-links": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "Ссылки на соцсети",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/home": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "Главная страница",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/about": {
			"get": {
				"tags": [
					"content"
				],
				"summary": "Страница \"обо мне\"",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/resume/download": {
			"get": {
				"tags": [
					"resume"
				],
				"summary": "Резюме в LaTeX (moderncv)",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/contact": {
			"post": {
				"tags": [
					"contact"
				],
				"summary": "Форма обратной связи",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/dashboard/projects": {
			"get": {
				"tags": [
					"dashboard-projects"
				],
				"summary": "Все проекты",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/projects/{id}": {
			"put": {
				"tags": [
					"dashboard-projects"
				],
				"summary": "Частичное обновление проекта",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"dashboard-projects"
				],
				"summary": "Удалить проект",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/projects/sync": {
			"post": {
				"tags": [
					"dashboard-projects"
				],
				"summary": "Синхронизация проектов с GitHub",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/projects/update-images": {
			"post": {
				"tags": [
					"dashboard-projects"
				],
				"summary": "Повторный поиск картинок в README",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/projects/update-language-percentages": {
			"post": {
				"tags": [
					"dashboard-projects"
				],
				"summary": "Пересчёт долей языков",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/blogs": {
			"get": {
				"tags": [
					"dashboard-blog"
				],
				"summary": "Все посты",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"dashboard-blog"
				],
				"summary": "Создать пост",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/blogs/{id}": {
			"get": {
				"tags": [
					"dashboard-blog"
				],
				"summary": "Пост по ID",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"dashboard-blog"
				],
				"summary": "Обновить пост",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"dashboard-blog"
				],
				"summary": "Удалить пост",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/home": {
			"put": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Сохранить главную страницу",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/about": {
			"put": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Сохранить страницу \"обо мне\"",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/upload": {
			"post": {
				"tags": [
					"dashboard-upload"
				],
				"summary": "Загрузка файла",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"multipart/form-data"
				],
				"parameters": [
					{
						"type": "file",
						"name": "file",
						"in": "formData",
						"required": true
					},
					{
						"type": "string",
						"name": "type",
						"in": "formData"
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/logs": {
			"get": {
				"tags": [
					"dashboard-logs"
				],
				"summary": "Логи за день",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/logs/days": {
			"get": {
				"tags": [
					"dashboard-logs"
				],
				"summary": "Дни, за которые есть логи",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/logs/stats": {
			"get": {
				"tags": [
					"dashboard-logs"
				],
				"summary": "Количество записей по часам и уровням",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/skills": {
			"get": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Список: skills",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Создать: skills",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/skills/{id}": {
			"put": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Обновить: skills",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Удалить: skills",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/experience": {
			"get": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Список: experience",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Создать: experience",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/experience/{id}": {
			"put": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Обновить: experience",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Удалить: experience",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/education": {
			"get": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Список: education",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Создать: education",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/education/{id}": {
			"put": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Обновить: education",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Удалить: education",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/social-links": {
			"get": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Список: social-links",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Создать: social-links",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		},
		"/api/dashboard/social-links/{id}": {
			"put": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Обновить: social-links",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "input",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"dashboard-content"
				],
				"summary": "Удалить: social-links",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"ApiKeyAuth": []
					}
				]
			}
		}
	},
	"securityDefinitions": {
		"ApiKeyAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo: метаданные, которые подставляются в шаблон.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Portfolio API",
	Description:      "API портфолио: проекты из GitHub, блог, контент, резюме, контакты и дашборд.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
