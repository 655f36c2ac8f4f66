package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ferreteria/ordenes-api/internal/app"
	"github.com/ferreteria/ordenes-api/internal/application/service"
	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func commands(cfg *config.Config, log zerolog.Logger) []*cli.Command {
	// open runs fn against a fully wired app and closes it afterwards
	open := func(fn func(c *cli.Context, a *app.App) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			return describe(fn(c, a))
		}
	}

	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "create or upgrade the schema and seed the admin user",
			Action: open(func(c *cli.Context, a *app.App) error {
				fmt.Fprintln(c.App.Writer, "schema up to date")
				return nil
			}),
		},
		{
			Name:  "next-code",
			Usage: "show the next order or receipt code",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "kind", Value: "order", Usage: "order or receipt"},
			},
			Action: open(func(c *cli.Context, a *app.App) error {
				var (
					code string
					err  error
				)
				switch c.String("kind") {
				case "order":
					code, err = a.Orders.PreviewCode(c.Context)
				case "receipt":
					code, err = a.Receipts.PreviewCode(c.Context)
				default:
					return fmt.Errorf("unknown kind %q (use order or receipt)", c.String("kind"))
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, code)
				return nil
			}),
		},
		{
			Name:  "orders",
			Usage: "list the most recent orders",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Value: 0, Usage: "maximum rows (0 uses the default)"},
				&cli.UintFlag{Name: "owner", Usage: "only orders visible to this user id (own and unowned)"},
				&cli.BoolFlag{Name: "csv", Usage: "write CSV instead of a table"},
			},
			Action: open(func(c *cli.Context, a *app.App) error {
				var owner *uint
				if c.IsSet("owner") {
					id := c.Uint("owner")
					owner = &id
				}
				orders, err := a.Orders.List(c.Context, c.Int("limit"), owner)
				if err != nil {
					return err
				}
				if c.Bool("csv") {
					return writeOrdersCSV(c.App.Writer, orders)
				}
				printOrders(c.App.Writer, orders)
				return nil
			}),
		},
		{
			Name:      "order",
			Usage:     "show one order as JSON",
			ArgsUsage: "ORDER_CODE",
			Action: open(func(c *cli.Context, a *app.App) error {
				code, err := firstArg(c)
				if err != nil {
					return err
				}
				order, err := a.Orders.Get(c.Context, code)
				if err != nil {
					return err
				}
				return writeJSON(c.App.Writer, order)
			}),
		},
		{
			Name:      "issue",
			Usage:     "issue a receipt for an order",
			ArgsUsage: "ORDER_CODE",
			Action: open(func(c *cli.Context, a *app.App) error {
				code, err := firstArg(c)
				if err != nil {
					return err
				}
				receipt, err := a.Receipts.Issue(c.Context, code)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s issued for %s: net %s, IVA %s, total %s\n",
					receipt.Code, receipt.OrderCode,
					receipt.Net.StringFixed(2), receipt.Tax.StringFixed(2), receipt.Total.StringFixed(2))
				return nil
			}),
		},
		{
			Name:      "receipt",
			Usage:     "show a receipt as JSON (by receipt code, or latest for --order)",
			ArgsUsage: "[RECEIPT_CODE]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "order", Usage: "look up the latest receipt of this order"},
			},
			Action: open(func(c *cli.Context, a *app.App) error {
				var (
					receipt *entity.Receipt
					err     error
				)
				if orderCode := c.String("order"); orderCode != "" {
					receipt, err = a.Receipts.FindByOrder(c.Context, orderCode)
				} else {
					var code string
					if code, err = firstArg(c); err != nil {
						return err
					}
					receipt, err = a.Receipts.FindByCode(c.Context, code)
				}
				if err != nil {
					return err
				}
				return writeJSON(c.App.Writer, receipt)
			}),
		},
		{
			Name:      "receipt-pdf",
			Usage:     "write a receipt as PDF",
			ArgsUsage: "RECEIPT_CODE",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Usage: "output file (default boleta_<code>.pdf)"},
			},
			Action: open(func(c *cli.Context, a *app.App) error {
				code, err := firstArg(c)
				if err != nil {
					return err
				}
				data, receipt, err := a.Printer.RenderPDF(c.Context, code)
				if err != nil {
					return err
				}
				out := c.String("out")
				if out == "" {
					out = fmt.Sprintf("boleta_%s.pdf", receipt.Code)
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", out, len(data))
				return nil
			}),
		},
		{
			Name:      "print",
			Usage:     "send a receipt to the configured thermal printer",
			ArgsUsage: "RECEIPT_CODE",
			Action: open(func(c *cli.Context, a *app.App) error {
				code, err := firstArg(c)
				if err != nil {
					return err
				}
				if _, err := a.Printer.PrintReceipt(c.Context, code); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s sent to printer\n", code)
				return nil
			}),
		},
		{
			Name:  "create-user",
			Usage: "add an operator account",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
				&cli.StringFlag{Name: "name"},
				&cli.StringFlag{Name: "role", Value: "user", Usage: "user or admin"},
			},
			Action: open(func(c *cli.Context, a *app.App) error {
				user, err := a.Users.CreateUser(c.Context, &service.CreateUserInput{
					Username:    c.String("username"),
					Password:    c.String("password"),
					DisplayName: c.String("name"),
					Role:        c.String("role"),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "user %s created with id %d\n", user.Username, user.ID)
				return nil
			}),
		},
	}
}

func firstArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("%s: missing %s", c.Command.Name, c.Command.ArgsUsage)
	}
	return c.Args().First(), nil
}

// describe adds the field list to validation errors
func describe(err error) error {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || len(appErr.Errors) == 0 {
		return err
	}
	msg := appErr.Message
	for _, fe := range appErr.Errors {
		msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
	}
	return errors.New(msg)
}

func printOrders(w io.Writer, orders []entity.Order) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCREATED\tCUSTOMER\tITEMS\tNET")
	for i := range orders {
		o := &orders[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			o.Code, o.CreatedAt.Format("2006-01-02 15:04"), o.Customer, o.ItemCount(), o.Net.StringFixed(2))
	}
	tw.Flush()
}

// writeOrdersCSV writes one row per order, items flattened as
// "qty x product" joined by "; ".
func writeOrdersCSV(w io.Writer, orders []entity.Order) error {
	cw := csv.NewWriter(w)
	header := []string{"code", "created_at", "customer", "address", "phone", "district", "region", "items", "item_count", "net"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range orders {
		o := &orders[i]
		items := make([]string, len(o.Items))
		for j, it := range o.Items {
			items[j] = fmt.Sprintf("%d x %s", it.Quantity, it.Product)
		}
		err := cw.Write([]string{
			o.Code,
			o.CreatedAt.Format(time.RFC3339),
			o.Customer,
			o.Address,
			o.Phone,
			o.District,
			o.Region,
			strings.Join(items, "; "),
			strconv.Itoa(o.ItemCount()),
			o.Net.StringFixed(2),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
