package services

import (
	"context"
	"math"
	"net/http"
	"time"

	"geofencing-app/geofencing-service/internal/geo"
	"geofencing-app/geofencing-service/internal/models"
)

// defaultAccuracyRadius is reported for retrieved locations; the NEF does not
// expose a position accuracy of its own.
const defaultAccuracyRadius = 100

// LocationService answers the synchronous CAMARA queries: "is the device in
// this circle right now" and "where is it". Same position source and same
// containment math as the monitor, no subscription involved.
type LocationService struct {
	positions PositionProvider
	now       func() time.Time
}

func NewLocationService(positions PositionProvider) *LocationService {
	return &LocationService{positions: positions, now: time.Now}
}

// Verify checks the device's position against the given circle. UNKNOWN means
// the position could not be obtained; the distance accompanies TRUE and FALSE
// results, rounded to centimeter precision.
func (s *LocationService) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationResponse, *models.ServiceError) {
	supi := ""
	if req.Device != nil {
		supi = req.Device.NetworkAccessIdentifier
	}
	if supi == "" {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeMissingIdentifier, "Only networkAccessIdentifier (IMSI/SUPI) is supported in this implementation.")
	}

	if req.Area.AreaType != "CIRCLE" {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeVerificationAreaNotCovered, "Only areaType=CIRCLE is supported.")
	}
	if req.Area.Center == nil {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeVerificationInvalidArea, "Center latitude and longitude are required.")
	}

	radius := req.Area.Radius
	if radius == 0 {
		radius = defaultAccuracyRadius
	}

	pos, err := s.positions.GetPosition(ctx, supi)
	if err != nil {
		return &models.VerificationResponse{VerificationResult: models.VerificationUnknown}, nil
	}

	distance := geo.DistanceMeters(pos.Latitude, pos.Longitude,
		req.Area.Center.Latitude, req.Area.Center.Longitude)
	rounded := math.Round(distance*100) / 100

	result := models.VerificationFalse
	if distance <= radius {
		result = models.VerificationTrue
	}

	return &models.VerificationResponse{
		VerificationResult: result,
		LastLocationTime:   models.UTCTimestamp(s.now()),
		Distance:           &rounded,
	}, nil
}

// Retrieve returns the device's last known position as a CIRCLE area with a
// fixed accuracy radius.
func (s *LocationService) Retrieve(ctx context.Context, req *models.RetrievalRequest) (*models.RetrievalResponse, *models.ServiceError) {
	supi := ""
	if req.Device != nil {
		supi = req.Device.NetworkAccessIdentifier
	}
	if supi == "" {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeMissingIdentifier, "Only networkAccessIdentifier (IMSI/SUPI) is supported in this implementation.")
	}
	if req.MaxAge != nil && *req.MaxAge == 0 {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeUnableToFulfillMaxAge, "Unable to provide expected freshness for location")
	}
	if req.MaxSurface != nil {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeUnableToFulfillSurface, "Unable to provide accurate acceptable surface for location")
	}

	pos, err := s.positions.GetPosition(ctx, supi)
	if err != nil {
		return nil, models.NewServiceError(http.StatusNotFound,
			models.CodeRetrievalDeviceNotFound, "The location server is not able to locate the mobile")
	}

	return &models.RetrievalResponse{
		LastLocationTime: models.UTCTimestamp(s.now()),
		Area: models.CircleArea{
			AreaType: "CIRCLE",
			Center:   pos.Point(),
			Radius:   defaultAccuracyRadius,
		},
	}, nil
}
