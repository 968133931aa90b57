package webserver

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JsoniterSerializer swaps echo's encoding/json for json-iterator.
type JsoniterSerializer struct{}

func (JsoniterSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsonAPI.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JsoniterSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsonAPI.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("invalid request body: %v", err)).SetInternal(err)
	}
	return nil
}
