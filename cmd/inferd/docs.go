package main

// General API documentation for swaggo. Regenerate with:
//
//	swag init -g cmd/inferd/docs.go -o docs
//
// @title           inferd API
// @version         1.0
// @description     HTTP API for local LLM model loading and text generation.
//
// @contact.name   inferd maintainers
// @contact.url    https://github.com/your-org/inferd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
