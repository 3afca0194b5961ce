package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {

	tests := []struct {
		name     string
		token    string
		org      string
		wantType AnnoType
		wantID   string
		wantFile string
		wantQ    string
	}{
		{"gene", "K00832", "ko", AnnoGene, "K00832", "ko", "K00832"},
		{"enzyme", "2.6.1.57", "ko", AnnoEC, "2.6.1.57", "enzyme", "2.6.1.57"},
		{"partial enzyme", "1.14.-.-", "ko", "", "", "", ""},
		{"enzyme with dash", "3.1.3.-", "ko", AnnoEC, "3.1.3.-", "enzyme", "3.1.3.-"},
		{"reaction", "R00734", "ko", AnnoReaction, "R00734", "rn", "R00734"},
		{"reaction class", "RC00006", "ko", AnnoReactionClass, "RC00006", "rc", "RC00006"},
		{"compound", "C00082", "ko", AnnoCompound, "C00082", "compound", "C00082"},
		{"glycan", "G00001", "ko", AnnoGlycan, "G00001", "glycan", "G00001"},
		{"drug", "D00001", "ko", AnnoDrug, "D00001", "drug", "D00001"},
		{"drug group", "DG00001", "ko", AnnoDrugGroup, "DG00001", "dgroup", "DG00001"},
		{"brite", "br:08003", "ko", AnnoBrite, "br:08003", "br", "br:08003"},
		{"map", "map00905", "ko", AnnoMap, "00905", "path", "map00905"},
		{"organism map", "eco00010", "ko", AnnoMap, "00010", "path", "map00010"},
		{"organism gene eco", "eco:b2286", "eco", AnnoType("eco"), "eco:b2286", "eco", "eco:b2286"},
		{"organism gene ko", "ko:15988", "ko", AnnoType("ko"), "ko:15988", "ko", "ko:15988"},
		{"drug anomaly", "dr:D00001", "ko", AnnoDrug, "D00001", "drug", "D00001"},
		{"brite anomaly", "htext=br08003&search_string=%22Acridone%20alkaloids%22&option=-n", "ko", AnnoBrite, "br:08003", "br", "br:08003"},
		{"brite anomaly with colon", "htext=br:08003", "ko", AnnoBrite, "br:08003", "br", "br:08003"},
		{"map anomaly", "map4670", "ko", AnnoMap, "04670", "path", "map04670"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Classify(tt.token, NewOrganism(tt.org))
			if tt.wantType == "" {
				assert.ErrorIs(t, err, ErrUnrecognizedToken, "token %q should not classify", tt.token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, c.Type)
			assert.Equal(t, tt.wantID, c.ID)
			assert.Equal(t, tt.wantFile, c.RestFile)
			assert.Equal(t, tt.wantQ, c.Query)
		})
	}
}

func TestClassifyUnrecognized(t *testing.T) {
	for _, token := range []string{"", "K0083", "hsa:1234", "dr:X00001", "htext=b", "map467", "foo"} {
		_, err := Classify(token, NewOrganism("eco"))
		assert.ErrorIs(t, err, ErrUnrecognizedToken, "token %q", token)
	}
}

func TestClassifyInvalidAnomaly(t *testing.T) {
	for _, token := range []string{"dr:D1234", "dr:D1", "htext=br08", "htext=br0800x"} {
		_, err := Classify(token, NewOrganism("ko"))
		assert.ErrorIs(t, err, ErrInvalidAnomaly, "token %q", token)
		assert.NotErrorIs(t, err, ErrUnrecognizedToken)
	}
}

func TestClassifyOrganismWinsOverTable(t *testing.T) {
	// an organism gene is checked before the generic table
	c, err := Classify("hsa:10", NewOrganism("hsa"))
	require.NoError(t, err)
	assert.Equal(t, AnnoType("hsa"), c.Type)
	assert.Equal(t, ClassEnzyme, c.Class)
}

func TestClassifyZeroOrganism(t *testing.T) {
	c, err := Classify("K00001", Organism{})
	require.NoError(t, err)
	assert.Equal(t, AnnoGene, c.Type)
}
