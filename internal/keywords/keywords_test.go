package keywords

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Contains(t *testing.T) {
	credit := NewSet("credit", "deposit", "transfer in", "salary", "payment received", "refund")

	tests := []struct {
		text     string
		expected bool
	}{
		{text: "SALARY ACME LTD", expected: true},
		{text: "Faster Payment Received from J SMITH", expected: true},
		{text: "TRANSFER IN 1234", expected: true},
		{text: "TESCO STORES", expected: false},
		{text: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, credit.Contains(tt.text))
		})
	}
}

func TestSet_Matches(t *testing.T) {
	s := NewSet("payment", "card payment", "fee", "Payment", " ")
	assert.Equal(t, 3, s.Len(), "duplicates and blanks are dropped")
	assert.Equal(t, []string{"payment", "card payment"}, s.Matches("CARD PAYMENT TO PRET"))
	assert.Equal(t, "card payment", s.Longest("CARD PAYMENT TO PRET"))
	assert.Equal(t, "", s.Longest("SALARY"))
	assert.Equal(t, "", s.Longest("PREPAYMENTS LTD"), "whole words only")

	var nilSet *Set
	assert.Equal(t, "", nilSet.Longest("CARD PAYMENT"))
}

func TestSet_Empty(t *testing.T) {
	var nilSet *Set
	assert.False(t, nilSet.Contains("anything"))
	assert.False(t, NewSet().Contains("anything"))
	assert.Empty(t, NewSet().Matches("anything"))
}

func TestSet_Words(t *testing.T) {
	s := NewSet("Barclays", "BARCLAYS BANK")
	words := s.Words()
	assert.Equal(t, []string{"barclays", "barclays bank"}, words)
	words[0] = "changed"
	assert.Equal(t, "barclays", s.Words()[0])
}

func TestSet_ConcurrentUse(t *testing.T) {
	s := NewSet("debit", "withdrawal", "fee")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.True(t, s.Contains("ATM WITHDRAWAL"))
				assert.False(t, s.Contains("SALARY"))
			}
		}()
	}
	wg.Wait()
}

func TestSet_MatchWords(t *testing.T) {
	s := NewSet("rbs", "bank of scotland", "lloyds bank")

	tests := []struct {
		text string
		want []string
	}{
		{"RBS Digital Banking", []string{"rbs"}},
		{"fresh herbs market", nil},
		{"Bank of Scotland plc", []string{"bank of scotland"}},
		{"Royal Bank of Scotland", []string{"bank of scotland"}},
		{"part of Lloyds Banking Group", nil},
		{"Lloyds Bank plc, lloyds banking", []string{"lloyds bank"}},
		{"(rbs)", []string{"rbs"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, s.MatchWords(tt.text))
			assert.Equal(t, len(tt.want) > 0, s.ContainsWord(tt.text))
		})
	}
}
