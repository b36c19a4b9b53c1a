package openapi

//go:generate go tool oapi-codegen -config ../../api/oapi-codegen.yaml ../../api/console.yaml
