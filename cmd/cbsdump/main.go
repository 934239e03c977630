/*
NAME
  main.go

DESCRIPTION
  cbsdump is a standalone driver for the CBS framework: it reads a raw
  elementary stream (or, for MPEG-2, a PID out of an MPEG transport
  stream) and drives Context.ReadPacket across it, printing the
  decomposed unit tree via the trace sink as it goes.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements cbsdump, a CLI front end for the CBS framework.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/cbs"
	_ "github.com/ausocean/cbs/av1"
	"github.com/ausocean/cbs/mpeg2"
	_ "github.com/ausocean/cbs/vp8"
	_ "github.com/ausocean/cbs/vp9"
	"github.com/ausocean/utils/logging"
)

const version = "v0.1.0"

// Logging configuration, following the rv CLI's lumberjack setup.
const (
	logPath      = "cbsdump.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 3
	logMaxAge    = 7 // days
	logVerbosity = logging.Debug
	logSuppress  = false
)

const pkg = "cbsdump: "

func main() {
	codecFlag := flag.String("codec", "", "codec to parse: av1, mpeg2, vp8, vp9")
	pidFlag := flag.Int("pid", -1, "MPEG transport stream PID to extract (mpeg2 only; -1 means input is already an elementary stream)")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cbsdump -codec=<av1|mpeg2|vp8|vp9> [-pid=N] <file>")
		os.Exit(2)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(os.Stdout, fileLog), logSuppress)

	id, err := codecID(*codecFlag)
	if err != nil {
		log.Fatal(pkg+"bad codec", "error", err.Error())
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(pkg+"could not read input", "error", err.Error())
	}

	if id == cbs.CodecMPEG2 && *pidFlag >= 0 {
		data, err = mpeg2.FromTransportStream(data, *pidFlag)
		if err != nil {
			log.Fatal(pkg+"could not extract elementary stream", "error", err.Error())
		}
	}

	ctx, err := cbs.Init(id, log)
	if err != nil {
		log.Fatal(pkg+"could not initialise context", "error", err.Error())
	}
	defer ctx.Close()

	ctx.TraceEnable = true
	ctx.TraceLevel = logging.Debug

	var frag cbs.Fragment
	if err := ctx.ReadPacket(&frag, data); err != nil {
		log.Fatal(pkg+"could not read packet", "error", err.Error())
	}

	log.Info("parsed fragment", "units", len(frag.Units))
	for i, u := range frag.Units {
		log.Info("unit", "index", i, "type", u.Type, "bytes", len(u.Data), "decomposed", u.Content != nil)
	}
}

func codecID(name string) (cbs.CodecID, error) {
	switch name {
	case "av1":
		return cbs.CodecAV1, nil
	case "mpeg2":
		return cbs.CodecMPEG2, nil
	case "vp8":
		return cbs.CodecVP8, nil
	case "vp9":
		return cbs.CodecVP9, nil
	default:
		return 0, fmt.Errorf("unknown codec %q", name)
	}
}
