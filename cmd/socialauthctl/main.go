package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string // access token, va como Bearer
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("SOCIALAUTH_URL", "http://localhost:8080")
		tok     = envOr("SOCIALAUTH_TOKEN", "")
		out     = envOr("SOCIALAUTH_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "socialauthctl",
		Short: "CLI contra la API de socialauth",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env SOCIALAUTH_URL)")
	root.PersistentFlags().StringVar(&tok, "token", tok, "Access token Bearer (env SOCIALAUTH_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: timeout}}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL = baseURL
		cl.Token = tok
		cl.OutFormat = out
	}

	// ping: usa /healthz (no requiere token)
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Ping al servidor (GET /healthz)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/healthz", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping falló: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	// users
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Operaciones sobre usuarios (requiere token)",
	}
	usersListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar usuarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/v1/users/", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("list falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	usersCmd.AddCommand(usersListCmd)

	// products
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Operaciones sobre productos (requiere token)",
	}

	productsListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar productos",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/v1/products/", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("list falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	productsGetCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Obtener un producto por ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/v1/products/"+args[0], nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("get falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	var crName, crDesc string
	var crPrice float64
	productsCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear un producto",
		RunE: func(cmd *cobra.Command, args []string) error {
			if crName == "" {
				return fmt.Errorf("--name es requerido")
			}
			payload := map[string]any{"name": crName, "description": crDesc, "price": crPrice}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/api/v1/products/", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("create falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	productsCreateCmd.Flags().StringVar(&crName, "name", "", "Nombre del producto")
	productsCreateCmd.Flags().StringVar(&crDesc, "description", "", "Descripción")
	productsCreateCmd.Flags().Float64Var(&crPrice, "price", 0, "Precio")

	productsDeleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Borrar un producto (requiere rol admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("DELETE", "/api/v1/products/"+args[0], nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("delete falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	productsCmd.AddCommand(productsListCmd, productsGetCmd, productsCreateCmd, productsDeleteCmd)

	root.AddCommand(pingCmd, usersCmd, productsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
