package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/models"
)

const (
	ofxProcessingInstruction = `<?OFX OFXHEADER="200" VERSION="211" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>`
	ofxDateLayout            = "20060102"
	ofxNameLimit             = 32
	ofxAccountType           = "CHECKING"
)

// OFX 2.x aggregates, in the element order the format requires.
type ofxDocument struct {
	XMLName xml.Name     `xml:"OFX"`
	SignOn  ofxSignOn    `xml:"SIGNONMSGSRSV1>SONRS"`
	Bank    ofxBankMsgRs `xml:"BANKMSGSRSV1"`
}

type ofxStatus struct {
	Code     int    `xml:"CODE"`
	Severity string `xml:"SEVERITY"`
}

type ofxSignOn struct {
	Status   ofxStatus `xml:"STATUS"`
	DTServer string    `xml:"DTSERVER"`
	Language string    `xml:"LANGUAGE"`
}

type ofxBankMsgRs struct {
	TrnRs ofxStmtTrnRs `xml:"STMTTRNRS"`
}

type ofxStmtTrnRs struct {
	TrnUID string    `xml:"TRNUID"`
	Status ofxStatus `xml:"STATUS"`
	StmtRs ofxStmtRs `xml:"STMTRS"`
}

type ofxStmtRs struct {
	CurDef      string          `xml:"CURDEF"`
	BankAcct    *ofxBankAcct    `xml:"BANKACCTFROM,omitempty"`
	BankTranLst ofxBankTranList `xml:"BANKTRANLIST"`
}

type ofxBankAcct struct {
	BankID   string `xml:"BANKID"`
	AcctID   string `xml:"ACCTID"`
	AcctType string `xml:"ACCTTYPE"`
}

type ofxBankTranList struct {
	DTStart string       `xml:"DTSTART,omitempty"`
	DTEnd   string       `xml:"DTEND,omitempty"`
	Trans   []ofxStmtTrn `xml:"STMTTRN"`
}

type ofxStmtTrn struct {
	TrnType  string `xml:"TRNTYPE"`
	DTPosted string `xml:"DTPOSTED"`
	TrnAmt   string `xml:"TRNAMT"`
	FITID    string `xml:"FITID"`
	Name     string `xml:"NAME"`
	Memo     string `xml:"MEMO,omitempty"`
}

type ofxSerializer struct{}

func (ofxSerializer) Format() string { return models.FormatOFX }

// Serialize writes an OFX 2.1.1 bank statement response. BANKACCTFROM is only
// emitted when an account number is known; NAME is capped at 32 characters
// with the full description kept in MEMO.
func (ofxSerializer) Serialize(txs []models.Transaction, opts Options) ([]byte, error) {
	ok := ofxStatus{Code: 0, Severity: "INFO"}

	list := ofxBankTranList{Trans: make([]ofxStmtTrn, 0, len(txs))}
	var first, last time.Time
	for i, tx := range txs {
		if first.IsZero() || tx.Date.Before(first) {
			first = tx.Date
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
		list.Trans = append(list.Trans, toOFXTransaction(i, tx))
	}
	if len(txs) > 0 {
		list.DTStart = first.Format(ofxDateLayout)
		list.DTEnd = last.Format(ofxDateLayout)
	}

	stamp := opts.GeneratedAt
	if stamp.IsZero() {
		stamp = last
	}
	if stamp.IsZero() {
		stamp = time.Unix(0, 0).UTC()
	}

	doc := ofxDocument{
		SignOn: ofxSignOn{Status: ok, DTServer: stamp.Format(ofxDateLayout), Language: "ENG"},
		Bank: ofxBankMsgRs{TrnRs: ofxStmtTrnRs{
			TrnUID: "1",
			Status: ok,
			StmtRs: ofxStmtRs{
				CurDef:      opts.Currency,
				BankAcct:    ofxAccount(opts),
				BankTranLst: list,
			},
		}},
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	buf.WriteString(ofxProcessingInstruction + "\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("error encoding OFX: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error encoding OFX: %w", err)
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func ofxAccount(opts Options) *ofxBankAcct {
	if opts.AccountNumber == "" {
		return nil
	}
	return &ofxBankAcct{BankID: opts.SortCode, AcctID: opts.AccountNumber, AcctType: ofxAccountType}
}

func toOFXTransaction(i int, tx models.Transaction) ofxStmtTrn {
	trnType := "DEBIT"
	if tx.IsCredit() {
		trnType = "CREDIT"
	}
	fitID := tx.ID
	if fitID == "" {
		fitID = fmt.Sprintf("%s-%04d", tx.Date.Format(ofxDateLayout), i+1)
	}

	out := ofxStmtTrn{
		TrnType:  trnType,
		DTPosted: tx.Date.Format(ofxDateLayout),
		TrnAmt:   currencyutils.FormatAmount(tx.SignedAmount()),
		FITID:    fitID,
		Name:     tx.Description,
	}
	if runes := []rune(tx.Description); len(runes) > ofxNameLimit {
		out.Name = string(runes[:ofxNameLimit])
		out.Memo = tx.Description
	}
	return out
}
