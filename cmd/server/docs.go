package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Industry Alerts Admin API
// @version         0.1.0
// @description     Reference data, alerts, dashboard aggregates, and exports.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
