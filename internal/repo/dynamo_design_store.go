package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/tbourn/sparrow-design-service/internal/config"
	"github.com/tbourn/sparrow-design-service/internal/domain"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoDesignStore.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// NewDynamoClient builds a DynamoDB client from configuration. Static
// credentials are used when provided (DynamoDB Local needs some), and a
// custom endpoint overrides the AWS resolver.
func NewDynamoClient(ctx context.Context, c config.DynamoConfig) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.Region)}
	if c.AccessKey != "" || c.Endpoint != "" {
		key, secret := c.AccessKey, c.SecretKey
		if key == "" {
			key, secret = "local", "local"
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}

// designItem is the DynamoDB representation of a DesignRequest. Nested
// values are stored as JSON strings and times as RFC3339Nano strings.
//
// Table requirements:
//   - PK: id (string)
type designItem struct {
	ID                 string `dynamodbav:"id"`
	CustomerID         string `dynamodbav:"customer_id"`
	ImageURL           string `dynamodbav:"image_url"`
	Description        string `dynamodbav:"description"`
	Quantity           int    `dynamodbav:"quantity"`
	Size               string `dynamodbav:"size"`
	Color              string `dynamodbav:"color,omitempty"`
	Notes              string `dynamodbav:"notes,omitempty"`
	Status             string `dynamodbav:"status"`
	CurrentQuote       string `dynamodbav:"current_quote,omitempty"`
	OpeningQuote       string `dynamodbav:"opening_quote,omitempty"`
	NegotiationHistory string `dynamodbav:"negotiation_history,omitempty"`
	SellerResponse     string `dynamodbav:"seller_response,omitempty"`
	CustomerResponse   string `dynamodbav:"customer_response,omitempty"`
	AdvancePayment     string `dynamodbav:"advance_payment,omitempty"`
	IsPriority         bool   `dynamodbav:"is_priority"`
	OrderID            string `dynamodbav:"order_id,omitempty"`
	Version            int64  `dynamodbav:"version"`
	CreatedAt          string `dynamodbav:"created_at"`
	UpdatedAt          string `dynamodbav:"updated_at"`
}

// DynamoDesignStore persists design requests in a DynamoDB table. Every
// write is a conditional PutItem, which gives the same compare-and-swap
// guarantee as the SQL store.
type DynamoDesignStore struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

// NewDynamoDesignStore returns a store writing to tableName.
func NewDynamoDesignStore(ddb DynamoAPI, tableName string) *DynamoDesignStore {
	return &DynamoDesignStore{ddb: ddb, tableName: tableName, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts d, failing with ErrDuplicate if the id is taken.
func (s *DynamoDesignStore) Create(ctx context.Context, d *domain.DesignRequest) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	now := s.now()
	d.CreatedAt, d.UpdatedAt = now, now

	av, err := s.marshal(d)
	if err != nil {
		return err
	}
	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if isConditionFailed(err) {
		return ErrDuplicate
	}
	return err
}

// Get fetches a design by id with a strongly consistent read.
func (s *DynamoDesignStore) Get(ctx context.Context, id string) (*domain.DesignRequest, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var it designItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return fromDesignItem(it)
}

// Swap writes next only if the stored item still has expectStatus and
// expectVersion.
func (s *DynamoDesignStore) Swap(ctx context.Context, next *domain.DesignRequest, expectStatus domain.Status, expectVersion int64) error {
	row := *next
	row.Version = expectVersion + 1
	row.UpdatedAt = s.now()

	av, err := s.marshal(&row)
	if err != nil {
		return err
	}
	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :expected_status AND #version = :expected_version"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#status":  "status",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected_status":  &types.AttributeValueMemberS{Value: string(expectStatus)},
			":expected_version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectVersion)},
		},
	})
	if isConditionFailed(err) {
		if _, gerr := s.Get(ctx, next.ID); errors.Is(gerr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrConflict
	}
	if err != nil {
		return err
	}
	next.Version = row.Version
	next.UpdatedAt = row.UpdatedAt
	return nil
}

// List scans the table with the filter pushed down, then orders and pages
// the result in memory the same way the SQL store does.
func (s *DynamoDesignStore) List(ctx context.Context, f DesignFilter, offset, limit int) ([]domain.DesignRequest, int64, error) {
	all, err := s.scan(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.DesignRequest{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// Stats returns the match count and latest UpdatedAt for ETag generation.
func (s *DynamoDesignStore) Stats(ctx context.Context, f DesignFilter) (int64, *time.Time, error) {
	all, err := s.scan(ctx, f)
	if err != nil || len(all) == 0 {
		return 0, nil, err
	}
	latest := all[0].UpdatedAt
	for _, d := range all[1:] {
		if d.UpdatedAt.After(latest) {
			latest = d.UpdatedAt
		}
	}
	return int64(len(all)), &latest, nil
}

func (s *DynamoDesignStore) scan(ctx context.Context, f DesignFilter) ([]domain.DesignRequest, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(s.tableName)}
	var (
		conds  []string
		names  = map[string]string{}
		values = map[string]types.AttributeValue{}
	)
	if f.CustomerID != "" {
		conds = append(conds, "#customer_id = :customer_id")
		names["#customer_id"] = "customer_id"
		values[":customer_id"] = &types.AttributeValueMemberS{Value: f.CustomerID}
	}
	if f.Status != "" {
		conds = append(conds, "#status = :status")
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(f.Status)}
	}
	if len(conds) > 0 {
		expr := conds[0]
		for _, c := range conds[1:] {
			expr += " AND " + c
		}
		in.FilterExpression = aws.String(expr)
		in.ExpressionAttributeNames = names
		in.ExpressionAttributeValues = values
	}

	var out []domain.DesignRequest
	p := dynamodb.NewScanPaginator(s.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []designItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			d, err := fromDesignItem(it)
			if err != nil {
				return nil, err
			}
			out = append(out, *d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPriority != out[j].IsPriority {
			return out[i].IsPriority
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *DynamoDesignStore) marshal(d *domain.DesignRequest) (map[string]types.AttributeValue, error) {
	it, err := toDesignItem(d)
	if err != nil {
		return nil, err
	}
	return attributevalue.MarshalMap(it)
}

func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return err != nil && errors.As(err, &cfe)
}

func toDesignItem(d *domain.DesignRequest) (designItem, error) {
	it := designItem{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		ImageURL:    d.ImageURL,
		Description: d.Description,
		Quantity:    d.Quantity,
		Size:        string(d.Size),
		Color:       d.Color,
		Notes:       d.Notes,
		Status:      string(d.Status),
		IsPriority:  d.IsPriority,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   d.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if d.OrderID != nil {
		it.OrderID = *d.OrderID
	}
	fields := []struct {
		dst *string
		src any
		set bool
	}{
		{&it.CurrentQuote, d.CurrentQuote, d.CurrentQuote != nil},
		{&it.OpeningQuote, d.OpeningQuote, d.OpeningQuote != nil},
		{&it.NegotiationHistory, d.NegotiationHistory, len(d.NegotiationHistory) > 0},
		{&it.SellerResponse, d.SellerResponse, d.SellerResponse != nil},
		{&it.CustomerResponse, d.CustomerResponse, d.CustomerResponse != nil},
		{&it.AdvancePayment, d.AdvancePayment, d.AdvancePayment != nil},
	}
	for _, f := range fields {
		if !f.set {
			continue
		}
		b, err := json.Marshal(f.src)
		if err != nil {
			return designItem{}, err
		}
		*f.dst = string(b)
	}
	return it, nil
}

func fromDesignItem(it designItem) (*domain.DesignRequest, error) {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	d := &domain.DesignRequest{
		ID:          it.ID,
		CustomerID:  it.CustomerID,
		ImageURL:    it.ImageURL,
		Description: it.Description,
		Quantity:    it.Quantity,
		Size:        domain.Size(it.Size),
		Color:       it.Color,
		Notes:       it.Notes,
		Status:      domain.Status(it.Status),
		IsPriority:  it.IsPriority,
		Version:     it.Version,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if it.OrderID != "" {
		id := it.OrderID
		d.OrderID = &id
	}
	fields := []struct {
		src string
		dst any
	}{
		{it.CurrentQuote, &d.CurrentQuote},
		{it.OpeningQuote, &d.OpeningQuote},
		{it.NegotiationHistory, &d.NegotiationHistory},
		{it.SellerResponse, &d.SellerResponse},
		{it.CustomerResponse, &d.CustomerResponse},
		{it.AdvancePayment, &d.AdvancePayment},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return nil, fmt.Errorf("decode design %s: %w", it.ID, err)
		}
	}
	return d, nil
}
