package config

const envPrefix = "STOCKROOM"
