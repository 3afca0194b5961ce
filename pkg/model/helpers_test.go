package model

import (
	"testing"

	"github.com/yumyai/keggmap/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs routes the package logger into an in-memory observer for one test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })
	return logs
}

func testLookup() DescriptionTable {
	table := DescriptionTable{}
	table.Put("ko", "K00832", "tyrB; aromatic-amino-acid transaminase")
	table.Put("ko", "K00838", "ARO8; aromatic amino acid aminotransferase I")
	table.Put("enzyme", "2.6.1.57", "aromatic-amino-acid transaminase")
	table.Put("compound", "C00082", "L-Tyrosine")
	table.Put("drug", "D00001", "Water (JP18)")
	table.Put("br", "br:08003", "Acridone alkaloids")
	table.Put("path", "map00905", "Brassinosteroid biosynthesis")
	table.Put("path", "map04670", "Leukocyte transendothelial migration")
	table.Put("eco", "eco:b2286", "nuoC; NADH:quinone oxidoreductase subunit CD")
	return table
}

func testParser(org string) *ShapeParser {
	return NewShapeParser(NewResolver(testLookup(), NewOrganism(org)))
}
