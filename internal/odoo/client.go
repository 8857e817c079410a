package odoo

import (
	"strings"
	"time"

	"github.com/kolo/xmlrpc"

	"timetracker/internal/apperr"
)

// Config — реквизиты подключения к Odoo.
type Config struct {
	URL      string
	Database string
	Username string
	APIKey   string
}

// Client — клиент Odoo поверх XML-RPC (/xmlrpc/2/common и /xmlrpc/2/object).
// uid после первой аутентификации кешируется.
type Client struct {
	cfg Config
	uid int64
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// ConnectionResult возвращается проверкой соединения.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UID     int64  `json:"uid,omitempty"`
}

func (c *Client) TestConnection() ConnectionResult {
	uid, err := c.authenticate()
	if err != nil {
		return ConnectionResult{Success: false, Message: err.Error()}
	}
	return ConnectionResult{Success: true, Message: "connection successful", UID: uid}
}

func (c *Client) authenticate() (int64, error) {
	if c.uid != 0 {
		return c.uid, nil
	}

	common, err := xmlrpc.NewClient(c.endpoint("/xmlrpc/2/common"), nil)
	if err != nil {
		return 0, apperr.Externalf("odoo: %v", err)
	}
	defer common.Close()

	var uid int64
	err = common.Call("authenticate",
		[]interface{}{c.cfg.Database, c.cfg.Username, c.cfg.APIKey, map[string]interface{}{}},
		&uid)
	if err != nil {
		// при неверных реквизитах Odoo возвращает false вместо uid
		return 0, apperr.Externalf("odoo authentication failed: %v", err)
	}
	if uid == 0 {
		return 0, apperr.Externalf("odoo authentication failed: invalid credentials")
	}

	c.uid = uid
	return uid, nil
}

// execute вызывает execute_kw на /xmlrpc/2/object.
func (c *Client) execute(model, method string, args []interface{}, result interface{}) error {
	uid, err := c.authenticate()
	if err != nil {
		return err
	}

	object, err := xmlrpc.NewClient(c.endpoint("/xmlrpc/2/object"), nil)
	if err != nil {
		return apperr.Externalf("odoo: %v", err)
	}
	defer object.Close()

	call := []interface{}{c.cfg.Database, uid, c.cfg.APIKey, model, method, args}
	if err := object.Call("execute_kw", call, result); err != nil {
		return apperr.Externalf("odoo api error: %v", err)
	}
	return nil
}

// FindPartner ищет контрагента по имени (ilike). 0 — не найден.
func (c *Client) FindPartner(name string) (int64, error) {
	return c.search("res.partner", "ilike", name)
}

// FindCompany ищет компанию по точному имени. 0 — не найдена.
func (c *Client) FindCompany(name string) (int64, error) {
	return c.search("res.company", "=", name)
}

func (c *Client) search(model, op, name string) (int64, error) {
	var ids []int64
	domain := []interface{}{[]interface{}{[]interface{}{"name", op, name}}}
	if err := c.execute(model, "search", domain, &ids); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

// InvoiceLine — строка счёта в формате Odoo.
type InvoiceLine struct {
	Name      string
	Quantity  float64
	PriceUnit float64
}

// InvoiceDraft — черновик account.move.
type InvoiceDraft struct {
	PartnerID   int64
	CompanyID   int64
	InvoiceDate time.Time
	Ref         string
	Lines       []InvoiceLine
}

// CreateInvoice создаёт счёт покупателю и возвращает его id в Odoo.
func (c *Client) CreateInvoice(draft InvoiceDraft) (int64, error) {
	lines := make([]interface{}, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		// формат Odoo для создания строк вместе с документом: (0, 0, values)
		lines = append(lines, []interface{}{0, 0, map[string]interface{}{
			"name":       l.Name,
			"quantity":   l.Quantity,
			"price_unit": l.PriceUnit,
		}})
	}

	values := map[string]interface{}{
		"partner_id":       draft.PartnerID,
		"move_type":        "out_invoice",
		"invoice_date":     draft.InvoiceDate.Format("2006-01-02"),
		"invoice_line_ids": lines,
		"ref":              draft.Ref,
	}
	if draft.CompanyID != 0 {
		values["company_id"] = draft.CompanyID
	}

	var id int64
	if err := c.execute("account.move", "create", []interface{}{values}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetInvoice читает счёт по id.
func (c *Client) GetInvoice(id int64) (map[string]interface{}, error) {
	var result []map[string]interface{}
	if err := c.execute("account.move", "read", []interface{}{[]int64{id}}, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, apperr.NotFoundf("odoo invoice %d", id)
	}
	return result[0], nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.URL, "/") + path
}
