/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/aruana-vision/apiserver/cmd"

func main() {
	cmd.Execute()
}
