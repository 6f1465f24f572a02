// Package tally speaks the Tally XML import/export protocol over HTTP.
// It is the sink behind the bulk synchronization coordinator and the
// source of the ledger catalog.
package tally

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ledgerlink-dev/ledgerlink/internal/bulk"
	"github.com/ledgerlink-dev/ledgerlink/internal/id"
	"github.com/ledgerlink-dev/ledgerlink/internal/model"
)

const tallyDateFormat = "20060102"

// Client talks to one Tally server for one company.
type Client struct {
	endpoint string
	company  string
	httpc    *http.Client
	log      *log.Logger
}

// NewClient creates a Client for the given endpoint and company.
func NewClient(endpoint, company string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		company:  company,
		httpc:    &http.Client{Timeout: timeout},
		log:      log.NewWithOptions(os.Stderr, log.Options{Prefix: "tally"}),
	}
}

func (c *Client) send(ctx context.Context, payload string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to tally: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading tally response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tally returned status %d", resp.StatusCode)
	}
	return string(body), nil
}

// PushVouchers imports the whole batch as vouchers in one request.
// Implements bulk.Sink: a nil result with nil error is uniform
// success; per-record results are recovered by attributing Tally line
// errors back to voucher numbers or ledger names; line errors that
// cannot be attributed to any record make the attempt a hard failure,
// since no trustworthy per-record detail exists.
func (c *Client) PushVouchers(ctx context.Context, records []bulk.VoucherRecord) ([]model.SyncResult, error) {
	payload, err := voucherImportXML(records, c.company)
	if err != nil {
		return nil, fmt.Errorf("encoding vouchers: %w", err)
	}

	raw, err := c.send(ctx, payload)
	if err != nil {
		return nil, err
	}

	ir, err := parseImportResult(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing tally response: %w", err)
	}
	c.log.Info("import result", "created", ir.Created, "errors", ir.Errors)

	if ir.Errors == 0 && len(ir.LineErrors) == 0 {
		return nil, nil
	}

	// Per-record detail is only trustworthy when every reported error
	// lands on a record: an unmatched line error, or an error count
	// beyond the failures found, would leave a rejected voucher marked
	// accepted.
	results, attributed := attributeLineErrors(records, ir.LineErrors)
	failed := 0
	for _, res := range results {
		if !res.Succeeded {
			failed++
		}
	}
	if attributed < len(ir.LineErrors) || failed < ir.Errors {
		return nil, fmt.Errorf("tally reported %d error(s) without full record detail: %s", ir.Errors, strings.Join(ir.LineErrors, "; "))
	}
	return results, nil
}

// CreateLedger imports a single ledger master.
func (c *Client) CreateLedger(ctx context.Context, l model.Ledger) error {
	payload, err := ledgerImportXML(l)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	raw, err := c.send(ctx, payload)
	if err != nil {
		return err
	}

	ir, err := parseImportResult(raw)
	if err != nil {
		return fmt.Errorf("parsing tally response: %w", err)
	}
	if ir.Errors > 0 || len(ir.LineErrors) > 0 {
		return fmt.Errorf("tally rejected ledger %q: %s", l.Name, strings.Join(ir.LineErrors, "; "))
	}
	c.log.Info("ledger created", "name", l.Name, "group", l.ParentGroup)
	return nil
}

// FetchLedgers exports the company's ledger catalog.
func (c *Client) FetchLedgers(ctx context.Context) ([]model.Ledger, error) {
	raw, err := c.send(ctx, collectionXML("All Ledgers", "Ledger", c.company))
	if err != nil {
		return nil, err
	}

	ledgers, err := parseLedgerCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing ledger collection: %w", err)
	}
	c.log.Info("fetched ledgers", "count", len(ledgers))
	return ledgers, nil
}

// FetchCompanies exports the list of companies loaded on the server.
func (c *Client) FetchCompanies(ctx context.Context) ([]string, error) {
	raw, err := c.send(ctx, collectionXML("List of Companies", "Company", ""))
	if err != nil {
		return nil, err
	}

	names, err := parseCompanyCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing company collection: %w", err)
	}
	return names, nil
}

// attributeLineErrors maps Tally line errors onto records, first by
// voucher number, then by a quoted ledger name. Records not named in
// any line error are treated as accepted.
func attributeLineErrors(records []bulk.VoucherRecord, lineErrors []string) ([]model.SyncResult, int) {
	failed := make(map[string]string, len(records))
	attributed := 0
	for _, le := range lineErrors {
		matched := false
		for _, rec := range records {
			if strings.Contains(le, id.FormatVoucherNumber(rec.ID)) {
				failed[rec.ID] = le
				matched = true
			}
		}
		if !matched {
			for _, rec := range records {
				if rec.ToLedger != "" && strings.Contains(le, "'"+rec.ToLedger+"'") {
					failed[rec.ID] = le
					matched = true
				}
			}
		}
		if matched {
			attributed++
		}
	}

	results := make([]model.SyncResult, len(records))
	for i, rec := range records {
		msg, bad := failed[rec.ID]
		results[i] = model.SyncResult{
			TransactionID: rec.ID,
			Succeeded:     !bad,
			ErrorMessage:  msg,
		}
	}
	return results, attributed
}

// --- request envelopes ---

type importEnvelope struct {
	XMLName xml.Name   `xml:"ENVELOPE"`
	Header  reqHeader  `xml:"HEADER"`
	Body    importBody `xml:"BODY"`
}

type reqHeader struct {
	TallyRequest string `xml:"TALLYREQUEST"`
}

type importBody struct {
	ImportData importData `xml:"IMPORTDATA"`
}

type importData struct {
	RequestDesc requestDesc    `xml:"REQUESTDESC"`
	RequestData []tallyMessage `xml:"REQUESTDATA>TALLYMESSAGE"`
}

type requestDesc struct {
	ReportName string      `xml:"REPORTNAME"`
	StaticVars *staticVars `xml:"STATICVARIABLES,omitempty"`
}

type staticVars struct {
	CurrentCompany string `xml:"SVCURRENTCOMPANY,omitempty"`
}

type tallyMessage struct {
	Voucher *voucherXML `xml:"VOUCHER,omitempty"`
	Ledger  *ledgerXML  `xml:"LEDGER,omitempty"`
}

type voucherXML struct {
	VchType         string      `xml:"VCHTYPE,attr"`
	Action          string      `xml:"ACTION,attr"`
	ObjView         string      `xml:"OBJVIEW,attr"`
	GUID            string      `xml:"GUID"`
	VoucherNumber   string      `xml:"VOUCHERNUMBER"`
	Date            string      `xml:"DATE"`
	Narration       string      `xml:"NARRATION"`
	VoucherTypeName string      `xml:"VOUCHERTYPENAME"`
	Entries         []legXML    `xml:"ALLLEDGERENTRIES.LIST"`
}

type legXML struct {
	LedgerName       string `xml:"LEDGERNAME"`
	IsDeemedPositive string `xml:"ISDEEMEDPOSITIVE"`
	Amount           string `xml:"AMOUNT"`
}

type ledgerXML struct {
	NameAttr         string `xml:"NAME,attr"`
	Name             string `xml:"NAME"`
	Parent           string `xml:"PARENT"`
	IsDeemedPositive string `xml:"ISDEEMEDPOSITIVE"`
	OpeningBalance   string `xml:"OPENINGBALANCE"`
	PartyGSTIN       string `xml:"PARTYGSTIN,omitempty"`
	StateName        string `xml:"LEDSTATENAME,omitempty"`
}

func voucherImportXML(records []bulk.VoucherRecord, company string) (string, error) {
	messages := make([]tallyMessage, len(records))
	for i, rec := range records {
		messages[i] = tallyMessage{Voucher: voucherFor(rec)}
	}

	env := importEnvelope{
		Header: reqHeader{TallyRequest: "Import Data"},
		Body: importBody{ImportData: importData{
			RequestDesc: requestDesc{
				ReportName: "Vouchers",
				StaticVars: &staticVars{CurrentCompany: company},
			},
			RequestData: messages,
		}},
	}
	return marshalEnvelope(env)
}

// voucherFor builds the two-leg voucher entry: the bank ledger leg and
// the posting ledger leg, with amounts signed the way Tally expects.
func voucherFor(rec bulk.VoucherRecord) *voucherXML {
	debit := rec.Withdrawal.IsPositive()
	amount := rec.Deposit
	if debit {
		amount = rec.Withdrawal
	}

	bankLeg := legXML{LedgerName: rec.FromLedger}
	postLeg := legXML{LedgerName: rec.ToLedger}
	if debit {
		bankLeg.IsDeemedPositive = "Yes"
		bankLeg.Amount = amount.Neg().StringFixed(2)
		postLeg.IsDeemedPositive = "No"
		postLeg.Amount = amount.StringFixed(2)
	} else {
		bankLeg.IsDeemedPositive = "No"
		bankLeg.Amount = amount.StringFixed(2)
		postLeg.IsDeemedPositive = "Yes"
		postLeg.Amount = amount.Neg().StringFixed(2)
	}

	return &voucherXML{
		VchType:         string(rec.VoucherType),
		Action:          "Create",
		ObjView:         "Accounting Voucher View",
		GUID:            uuid.NewString(),
		VoucherNumber:   id.FormatVoucherNumber(rec.ID),
		Date:            rec.Date.Format(tallyDateFormat),
		Narration:       rec.Narration,
		VoucherTypeName: string(rec.VoucherType),
		Entries:         []legXML{bankLeg, postLeg},
	}
}

func ledgerImportXML(l model.Ledger) (string, error) {
	stateName := ""
	for _, sc := range model.StateCodes {
		if sc.Code == l.StateCode {
			stateName = sc.Name
			break
		}
	}

	env := importEnvelope{
		Header: reqHeader{TallyRequest: "Import Data"},
		Body: importBody{ImportData: importData{
			RequestDesc: requestDesc{ReportName: "All Masters"},
			RequestData: []tallyMessage{{Ledger: &ledgerXML{
				NameAttr:         l.Name,
				Name:             l.Name,
				Parent:           l.ParentGroup,
				IsDeemedPositive: "Yes",
				OpeningBalance:   "0",
				PartyGSTIN:       l.GSTIN,
				StateName:        stateName,
			}}},
		}},
	}
	return marshalEnvelope(env)
}

func marshalEnvelope(env importEnvelope) (string, error) {
	data, err := xml.MarshalIndent(env, "", " ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(data), nil
}

// collectionXML builds an export request for a named TDL collection.
func collectionXML(collection, objType, company string) string {
	var sv strings.Builder
	if company != "" {
		sv.WriteString("<SVCURRENTCOMPANY>")
		_ = xml.EscapeText(&sv, []byte(company))
		sv.WriteString("</SVCURRENTCOMPANY>")
	}

	return fmt.Sprintf(`<ENVELOPE>
 <HEADER>
  <VERSION>1</VERSION>
  <TALLYREQUEST>Export</TALLYREQUEST>
  <TYPE>Collection</TYPE>
  <ID>%[1]s</ID>
 </HEADER>
 <BODY>
  <DESC>
   <STATICVARIABLES>
    <SVEXPORTFORMAT>$$SysName:XML</SVEXPORTFORMAT>
    %[3]s
   </STATICVARIABLES>
   <TDL>
    <TDLMESSAGE>
     <COLLECTION NAME="%[1]s" ISINITIALIZE="Yes">
      <TYPE>%[2]s</TYPE>
      <NATIVEMETHOD>NAME</NATIVEMETHOD>
      <NATIVEMETHOD>PARENT</NATIVEMETHOD>
     </COLLECTION>
    </TDLMESSAGE>
   </TDL>
  </DESC>
 </BODY>
</ENVELOPE>`, collection, objType, sv.String())
}

// --- response parsing ---

type importResult struct {
	Created    int
	Altered    int
	Errors     int
	LineErrors []string
}

// parseImportResult walks the response tokens rather than decoding a
// fixed envelope, since Tally answers import requests with either a
// RESPONSE or an ENVELOPE/IMPORTRESULT shape.
func parseImportResult(raw string) (importResult, error) {
	var ir importResult
	dec := xml.NewDecoder(strings.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ir, fmt.Errorf("invalid response XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "CREATED":
			_ = decodeInt(dec, &start, &ir.Created)
		case "ALTERED":
			_ = decodeInt(dec, &start, &ir.Altered)
		case "ERRORS":
			_ = decodeInt(dec, &start, &ir.Errors)
		case "LINEERROR":
			var s string
			if err := dec.DecodeElement(&s, &start); err == nil && strings.TrimSpace(s) != "" {
				ir.LineErrors = append(ir.LineErrors, strings.TrimSpace(s))
			}
		}
	}
	return ir, nil
}

func decodeInt(dec *xml.Decoder, start *xml.StartElement, dst *int) error {
	var n int
	if err := dec.DecodeElement(&n, start); err != nil {
		return err
	}
	*dst = n
	return nil
}

type ledgerCollection struct {
	Ledgers []struct {
		NameAttr  string   `xml:"NAME,attr"`
		Parent    string   `xml:"PARENT"`
		LangNames []string `xml:"LANGUAGENAME.LIST>NAME.LIST>NAME"`
	} `xml:"BODY>DATA>COLLECTION>LEDGER"`
}

func parseLedgerCollection(raw string) ([]model.Ledger, error) {
	var col ledgerCollection
	if err := xml.Unmarshal([]byte(raw), &col); err != nil {
		return nil, err
	}

	var out []model.Ledger
	for _, l := range col.Ledgers {
		name := l.NameAttr
		if name == "" && len(l.LangNames) > 0 {
			name = l.LangNames[0]
		}
		if name == "" {
			continue
		}
		out = append(out, model.Ledger{
			ID:          uuid.NewString(),
			Name:        name,
			ParentGroup: strings.TrimSpace(l.Parent),
		})
	}
	return out, nil
}

type companyCollection struct {
	Names []string `xml:"BODY>DATA>COLLECTION>COMPANY>NAME"`
}

func parseCompanyCollection(raw string) ([]string, error) {
	var col companyCollection
	if err := xml.Unmarshal([]byte(raw), &col); err != nil {
		return nil, err
	}

	var out []string
	for _, n := range col.Names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}
