package main

import "flag"

var cfgPathFlag string

const defaultConfigFilePath = "./config.toml"

func init() {
	flag.StringVar(&cfgPathFlag, "config", defaultConfigFilePath, "path to config file")
	flag.Parse()
}
