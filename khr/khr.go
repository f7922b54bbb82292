// Package khr implements the Khronos reference extensions for the
// gltfext codec: the specular-glossiness PBR material model, the unlit
// material flag, Draco mesh compression, and texture-coordinate
// transforms. NewSerializer and NewDeserializer return registries wired
// with all four, scoped to the node kinds each extension is defined on.
package khr

import gltfext "github.com/gltfkit/gltfext-go"

// Registered extension names.
const (
	PBRSpecularGlossinessName = "KHR_materials_pbrSpecularGlossiness"
	UnlitName                 = "KHR_materials_unlit"
	DracoMeshCompressionName  = "KHR_draco_mesh_compression"
	TextureTransformName      = "KHR_texture_transform"
)

// NewSerializer returns a serializer registry covering the four KHR
// extensions.
func NewSerializer(opts ...gltfext.RegistryOption) (*gltfext.ExtensionSerializer, error) {
	return gltfext.NewExtensionSerializer([]gltfext.SerializerRegistration{
		{Name: PBRSpecularGlossinessName, Owner: gltfext.KindMaterial, Fn: serializePBRSpecularGlossiness},
		{Name: UnlitName, Owner: gltfext.KindMaterial, Fn: serializeUnlit},
		{Name: DracoMeshCompressionName, Owner: gltfext.KindMeshPrimitive, Fn: serializeDracoMeshCompression},
		{Name: TextureTransformName, Owner: gltfext.KindTextureInfo, Fn: serializeTextureTransform},
	}, opts...)
}

// NewDeserializer returns a deserializer registry covering the four KHR
// extensions.
func NewDeserializer(opts ...gltfext.RegistryOption) (*gltfext.ExtensionDeserializer, error) {
	return gltfext.NewExtensionDeserializer([]gltfext.DeserializerRegistration{
		{Name: PBRSpecularGlossinessName, Owner: gltfext.KindMaterial, Fn: deserializePBRSpecularGlossiness},
		{Name: UnlitName, Owner: gltfext.KindMaterial, Fn: deserializeUnlit},
		{Name: DracoMeshCompressionName, Owner: gltfext.KindMeshPrimitive, Fn: deserializeDracoMeshCompression},
		{Name: TextureTransformName, Owner: gltfext.KindTextureInfo, Fn: deserializeTextureTransform},
	}, opts...)
}
