package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	geocodedomain "github.com/simplegeohq/simplegeoapi/internal/geocode/domain"
)

const (
	msgFoundInCache    = "address found in cache"
	msgFoundViaGeocode = "address found via geocoding provider"
)

type geocodeRequest struct {
	Address string `json:"address"`
}

type geocodeResponse struct {
	Message   string  `json:"message"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) GeocodeAddress(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, geocodedomain.ErrAddressRequired)
		return
	}

	result, err := s.geocodeSvc.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, geocodeResponse{
		Message:   sourceMessage(result.Source),
		Address:   result.Address,
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
	})
}

type reverseGeocodeRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
}

type reverseGeocodeResponse struct {
	Message string `json:"message"`
	Address string `json:"address"`
}

func (s *Server) ReverseGeocode(c *gin.Context) {
	var req reverseGeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Latitude == nil || req.Longitude == nil {
		AbortWithError(c, geocodedomain.ErrCoordinatesRequired)
		return
	}

	result, err := s.geocodeSvc.ReverseGeocode(c.Request.Context(), *req.Latitude, *req.Longitude)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reverseGeocodeResponse{
		Message: sourceMessage(result.Source),
		Address: result.Address,
	})
}

type batchGeocodeRequest struct {
	Addresses []string `json:"addresses"`
}

type batchItemResponse struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Status    string  `json:"status,omitempty"`
	Error     string  `json:"error,omitempty"`
}

type batchGeocodeResponse struct {
	Message string              `json:"message"`
	Results []batchItemResponse `json:"results"`
}

// BatchGeocode resolves up to a whole list of addresses in one call. Each
// address is one billable unit, so the tracker is told before the response is
// written.
func (s *Server) BatchGeocode(c *gin.Context) {
	var req batchGeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Addresses) == 0 {
		AbortWithError(c, geocodedomain.ErrAddressRequired)
		return
	}

	c.Set(ctxBillableUnits, len(req.Addresses))

	items, err := s.geocodeSvc.BatchGeocode(c.Request.Context(), req.Addresses)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	results := make([]batchItemResponse, 0, len(items))
	for _, item := range items {
		if item.Err != nil {
			results = append(results, batchItemResponse{
				Address: item.Address,
				Error:   item.Err.Error(),
			})
			continue
		}
		results = append(results, batchItemResponse{
			Address:   item.Address,
			Latitude:  item.Latitude,
			Longitude: item.Longitude,
			Status:    string(item.Source),
		})
	}

	c.JSON(http.StatusOK, batchGeocodeResponse{
		Message: "batch geocoding complete",
		Results: results,
	})
}

type poiRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
	Radius    int      `json:"radius"`
	Type      string   `json:"type"`
}

type poiResponse struct {
	Results []geocodedomain.Place `json:"results"`
}

func (s *Server) NearbyPOI(c *gin.Context) {
	var req poiRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Latitude == nil || req.Longitude == nil {
		AbortWithError(c, geocodedomain.ErrCoordinatesRequired)
		return
	}

	places, err := s.geocodeSvc.NearbyPOI(c.Request.Context(), geocodedomain.POIRequest{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Radius:    req.Radius,
		Type:      req.Type,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, poiResponse{Results: places})
}

func sourceMessage(source geocodedomain.Source) string {
	if source == geocodedomain.SourceCache {
		return msgFoundInCache
	}
	return msgFoundViaGeocode
}
