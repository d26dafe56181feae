package main

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/meverselabs/farms/service/apiserver"
)

func callCommand() *cobra.Command {
	var hostURL string
	cmd := &cobra.Command{
		Use:   "call [method] (params...)",
		Short: "calls a json rpc method of a running farmd",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]interface{}, 0, len(args)-1)
			for _, v := range args[1:] {
				params = append(params, v)
			}
			res, err := DoRequest(hostURL, args[0], params)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&hostURL, "host", "http://localhost:48000", "url of the farmd to access")
	return cmd
}

// DoRequest sends a json rpc request and returns the result
func DoRequest(hostURL string, Method string, Params []interface{}) (interface{}, error) {
	req := &apiserver.JRPCRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  Method,
		Params:  Params,
	}
	bs, err := json.Marshal(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r, err := http.Post(hostURL+"/api/endpoints/http", "application/json", bytes.NewReader(bs))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer r.Body.Close()

	var res apiserver.JRPCResponse
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		return nil, errors.WithStack(err)
	}
	if res.Error != nil {
		return nil, errors.Errorf("%d: %s", res.Error.Code, res.Error.Message)
	}
	return res.Result, nil
}
