package core

import (
	"context"

	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/models"
	"github.com/abordodesign/habitofit/internal/payments"
)

// In-memory fakes for the repository and provider interfaces. Each test
// configures only the fields it needs; unset maps behave as empty stores.

type fakeCustomerRepo struct {
	customers     map[string]*models.Customer     // by uid
	subscriptions map[string]*models.Subscription // by uid, latest only
	uidByStripeID map[string]string

	getErr error
	setErr error

	setCalls      []*models.Customer
	savedSubs     map[string]*models.Subscription
	savedSessions map[string]string
	savedPayments map[string]*models.PaymentSucceeded
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers:     map[string]*models.Customer{},
		subscriptions: map[string]*models.Subscription{},
		uidByStripeID: map[string]string{},
		savedSubs:     map[string]*models.Subscription{},
		savedSessions: map[string]string{},
		savedPayments: map[string]*models.PaymentSucceeded{},
	}
}

func (f *fakeCustomerRepo) Get(ctx context.Context, uid string) (*models.Customer, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.customers[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) Set(ctx context.Context, customer *models.Customer) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, customer)
	f.customers[customer.UID] = customer
	f.uidByStripeID[customer.StripeID] = customer.UID
	return nil
}

func (f *fakeCustomerRepo) FindUIDByStripeID(ctx context.Context, stripeID string) (string, error) {
	uid, ok := f.uidByStripeID[stripeID]
	if !ok {
		return "", db.ErrNotFound
	}
	return uid, nil
}

func (f *fakeCustomerRepo) LatestSubscription(ctx context.Context, uid string) (*models.Subscription, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sub, ok := f.subscriptions[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return sub, nil
}

func (f *fakeCustomerRepo) SaveSubscription(ctx context.Context, uid string, sub *models.Subscription) error {
	f.savedSubs[uid] = sub
	f.subscriptions[uid] = sub
	return nil
}

func (f *fakeCustomerRepo) SaveCheckoutSession(ctx context.Context, uid, sessionID string, created int64) error {
	f.savedSessions[uid] = sessionID
	return nil
}

func (f *fakeCustomerRepo) SavePayment(ctx context.Context, uid string, payment *models.PaymentSucceeded) error {
	f.savedPayments[uid] = payment
	return nil
}

type fakeProvider struct {
	customersByID    map[string]*models.ProviderCustomer
	customersByEmail map[string]*models.ProviderCustomer
	subsByCustomer   map[string]*models.ProviderSubscription
	cardsByCustomer  map[string]*models.Card

	firstCardCalls int
	checkoutURL    string
	portalURL      string
	event          *models.PaymentEvent
	parseErr       error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		customersByID:    map[string]*models.ProviderCustomer{},
		customersByEmail: map[string]*models.ProviderCustomer{},
		subsByCustomer:   map[string]*models.ProviderSubscription{},
		cardsByCustomer:  map[string]*models.Card{},
	}
}

func (f *fakeProvider) addCustomer(c *models.ProviderCustomer) {
	f.customersByID[c.ID] = c
	if c.Email != "" {
		f.customersByEmail[c.Email] = c
	}
}

func (f *fakeProvider) GetCustomer(ctx context.Context, customerID string) (*models.ProviderCustomer, error) {
	c, ok := f.customersByID[customerID]
	if !ok {
		return nil, payments.ErrCustomerMissing
	}
	return c, nil
}

func (f *fakeProvider) FindCustomerByEmail(ctx context.Context, email string) (*models.ProviderCustomer, error) {
	c, ok := f.customersByEmail[email]
	if !ok {
		return nil, payments.ErrCustomerMissing
	}
	return c, nil
}

func (f *fakeProvider) LatestSubscription(ctx context.Context, customerID string) (*models.ProviderSubscription, error) {
	return f.subsByCustomer[customerID], nil
}

func (f *fakeProvider) FirstCard(ctx context.Context, customerID string) (*models.Card, error) {
	f.firstCardCalls++
	return f.cardsByCustomer[customerID], nil
}

func (f *fakeProvider) NewCheckoutSession(ctx context.Context, p models.CheckoutParams) (string, error) {
	return f.checkoutURL, nil
}

func (f *fakeProvider) NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	return f.portalURL, nil
}

func (f *fakeProvider) ParseWebhookEvent(payload []byte, signature string) (*models.PaymentEvent, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.event, nil
}

type fakeCatalogRepo struct {
	series   map[uint]*models.Series
	episodes map[uint]*models.Episode

	ratingUpdates        map[uint]float64
	episodeRatingUpdates map[uint]float64
	nextID               uint
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		series:               map[uint]*models.Series{},
		episodes:             map[uint]*models.Episode{},
		ratingUpdates:        map[uint]float64{},
		episodeRatingUpdates: map[uint]float64{},
		nextID:               1,
	}
}

func (f *fakeCatalogRepo) ListSeries(ctx context.Context) ([]*models.Series, error) {
	out := make([]*models.Series, 0, len(f.series))
	for _, s := range f.series {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetSeries(ctx context.Context, id uint) (*models.Series, error) {
	s, ok := f.series[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return s, nil
}

func (f *fakeCatalogRepo) CreateSeries(ctx context.Context, s *models.Series) error {
	s.ID = f.nextID
	f.nextID++
	f.series[s.ID] = s
	return nil
}

func (f *fakeCatalogRepo) UpdateSeries(ctx context.Context, s *models.Series) error {
	f.series[s.ID] = s
	return nil
}

func (f *fakeCatalogRepo) DeleteSeries(ctx context.Context, id uint) error {
	delete(f.series, id)
	return nil
}

func (f *fakeCatalogRepo) UpdateSeriesRating(ctx context.Context, id uint, rating float64) error {
	f.ratingUpdates[id] = rating
	if s, ok := f.series[id]; ok {
		s.Rating = rating
	}
	return nil
}

func (f *fakeCatalogRepo) UpdateEpisodeRating(ctx context.Context, id uint, rating float64) error {
	f.episodeRatingUpdates[id] = rating
	if e, ok := f.episodes[id]; ok {
		e.Rating = rating
	}
	return nil
}

func (f *fakeCatalogRepo) ListEpisodes(ctx context.Context, seriesID uint) ([]*models.Episode, error) {
	out := []*models.Episode{}
	for _, e := range f.episodes {
		if e.SeriesID == seriesID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetEpisode(ctx context.Context, id uint) (*models.Episode, error) {
	e, ok := f.episodes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return e, nil
}

func (f *fakeCatalogRepo) CreateEpisode(ctx context.Context, e *models.Episode) error {
	e.ID = f.nextID
	f.nextID++
	f.episodes[e.ID] = e
	return nil
}

func (f *fakeCatalogRepo) UpdateEpisode(ctx context.Context, e *models.Episode) error {
	f.episodes[e.ID] = e
	return nil
}

func (f *fakeCatalogRepo) DeleteEpisode(ctx context.Context, id uint) error {
	delete(f.episodes, id)
	return nil
}

type fakeFavoriteRepo struct {
	docs map[string]*models.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{docs: map[string]*models.Favorite{}}
}

func (f *fakeFavoriteRepo) Set(ctx context.Context, fav *models.Favorite) error {
	f.docs[models.FavoriteDocID(fav.UserID, fav.SeriesID)] = fav
	return nil
}

func (f *fakeFavoriteRepo) Delete(ctx context.Context, userID, seriesID string) error {
	delete(f.docs, models.FavoriteDocID(userID, seriesID))
	return nil
}

func (f *fakeFavoriteRepo) Exists(ctx context.Context, userID, seriesID string) (bool, error) {
	_, ok := f.docs[models.FavoriteDocID(userID, seriesID)]
	return ok, nil
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	out := []*models.Favorite{}
	for _, fav := range f.docs {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

type fakeRatingRepo struct {
	docs map[string]*models.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{docs: map[string]*models.Rating{}}
}

func (f *fakeRatingRepo) Save(ctx context.Context, rating *models.Rating) error {
	f.docs[models.RatingDocID(rating.UserID, rating.ItemType, rating.ItemID)] = rating
	return nil
}

func (f *fakeRatingRepo) Get(ctx context.Context, userID, itemType, itemID string) (*models.Rating, error) {
	r, ok := f.docs[models.RatingDocID(userID, itemType, itemID)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return r, nil
}

func (f *fakeRatingRepo) ListByItem(ctx context.Context, itemType, itemID string) ([]*models.Rating, error) {
	out := []*models.Rating{}
	for _, r := range f.docs {
		if r.ItemType == itemType && r.ItemID == itemID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uint]*models.Comment{}, nextID: 1}
}

func (f *fakeCommentRepo) ListByEpisode(ctx context.Context, episodeID uint) ([]*models.Comment, error) {
	out := []*models.Comment{}
	for _, c := range f.comments {
		if c.EpisodeID == episodeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	c.ID = f.nextID
	f.nextID++
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepo) Get(ctx context.Context, id uint) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.comments[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

type fakeAdminRepo struct {
	roles    map[string]*models.AdminRole
	profiles []*models.Profile
	roleErr  error
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{roles: map[string]*models.AdminRole{}}
}

func (f *fakeAdminRepo) GetRole(ctx context.Context, uid string) (*models.AdminRole, error) {
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	r, ok := f.roles[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return r, nil
}

func (f *fakeAdminRepo) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return f.profiles, nil
}

type fakeNotificationRepo struct {
	notifications map[uint]*models.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[uint]*models.Notification{}, nextID: 1}
}

func (f *fakeNotificationRepo) List(ctx context.Context) ([]*models.Notification, error) {
	out := []*models.Notification{}
	for _, n := range f.notifications {
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.ID = f.nextID
	f.nextID++
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) Update(ctx context.Context, n *models.Notification) error {
	if _, ok := f.notifications[n.ID]; !ok {
		return db.ErrNotFound
	}
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.notifications[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.notifications, id)
	return nil
}

type fakeFileStore struct {
	uploads map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{uploads: map[string][]byte{}}
}

func (f *fakeFileStore) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	f.uploads[path] = data
	return "https://storage.googleapis.com/" + bucket + "/" + path, nil
}

type fakeFavoritesCache struct {
	data map[string][]*models.Favorite

	getErr error
	putErr error
	puts   int
}

func newFakeFavoritesCache() *fakeFavoritesCache {
	return &fakeFavoritesCache{data: map[string][]*models.Favorite{}}
}

func (f *fakeFavoritesCache) Get(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[userID], nil
}

func (f *fakeFavoritesCache) Put(ctx context.Context, userID string, favs []*models.Favorite) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.data[userID] = favs
	return nil
}
