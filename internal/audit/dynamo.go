package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"spareparts-be/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of *dynamodb.Client the audit store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// entryItem is the stored shape. Table keys:
//   - PK: entity_key (string, "<ENTITY_TYPE>#<id>")
//   - SK: created_at (string, RFC3339Nano)
type entryItem struct {
	EntityKey  string `dynamodbav:"entity_key"`
	CreatedAt  string `dynamodbav:"created_at"`
	Action     string `dynamodbav:"action"`
	EntityType string `dynamodbav:"entity_type"`
	EntityID   int64  `dynamodbav:"entity_id"`
	UserID     *int64 `dynamodbav:"user_id,omitempty"`
	OldValue   string `dynamodbav:"old_value,omitempty"`
	NewValue   string `dynamodbav:"new_value"`
}

type dynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

func NewDynamoRepository(ddb DynamoAPI, tableName string) Repository {
	return &dynamoRepository{ddb: ddb, tableName: tableName}
}

func entityKey(entityType string, entityID int64) string {
	return entityType + "#" + strconv.FormatInt(entityID, 10)
}

func (r *dynamoRepository) Save(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	av, err := attributevalue.MarshalMap(entryItem{
		EntityKey:  entityKey(e.EntityType, e.EntityID),
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339Nano),
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		UserID:     e.UserID,
		OldValue:   e.OldValue,
		NewValue:   e.NewValue,
	})
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put audit entry: %w", err)
	}
	return nil
}

func (r *dynamoRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]Entry, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": "entity_key",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: entityKey(entityType, entityID)},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	var items []entryItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		created, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
		entries = append(entries, Entry{
			Action:     it.Action,
			EntityType: it.EntityType,
			EntityID:   it.EntityID,
			UserID:     it.UserID,
			OldValue:   it.OldValue,
			NewValue:   it.NewValue,
			CreatedAt:  created,
		})
	}
	return entries, nil
}

// NewDynamoConfig builds an AWS config from cfg. Credentials default to
// "local" so DynamoDB Local works without a real account.
func NewDynamoConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(creds),
	}

	if endpoint := cfg.DynamoEndpoint; endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == dynamodb.ServiceID {
				return aws.Endpoint{URL: endpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	return awsconfig.LoadDefaultConfig(ctx, loadOpts...)
}

// NewRepositoryFromConfig picks the audit backend named by cfg.AuditBackend.
func NewRepositoryFromConfig(ctx context.Context, cfg *config.Config, sqlDB *sql.DB) (Repository, error) {
	switch cfg.AuditBackend {
	case "", "postgres":
		return NewRepository(sqlDB), nil
	case "dynamodb":
		awsCfg, err := NewDynamoConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create dynamodb config: %w", err)
		}
		return NewDynamoRepository(dynamodb.NewFromConfig(awsCfg), cfg.AuditTable), nil
	default:
		return nil, fmt.Errorf("unknown audit backend %q", cfg.AuditBackend)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
